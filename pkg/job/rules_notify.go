package job

import (
	"strings"

	"github.com/robfig/cron"

	"github.com/williamokano/backupgen/pkg/coerce"
)

const (
	defaultRelayHost = "localhost"
	defaultRelayPort = 25
)

func validateEncryptor(v *validation) error {
	val, ok := v.lookup("encryptor")
	if !ok {
		return nil
	}
	if s, _ := val.AsString(); EncryptorKind(s) != EncryptorOpenSSL {
		return fail(ErrInvalidEnum, "encryptor", "Supported encryptors are %s", EncryptorOpenSSL)
	}

	password, err := v.require("openssl_password", "The 'openssl_password' must be set when using the openssl encryptor")
	if err != nil {
		return err
	}
	enc := &Encryptor{Kind: EncryptorOpenSSL, Password: password}
	if enc.Base64, err = v.boolOr("openssl_base64", true); err != nil {
		return err
	}
	if enc.Salt, err = v.boolOr("openssl_salt", true); err != nil {
		return err
	}

	v.m.Encryptor = enc
	return nil
}

func validateCompressor(v *validation) error {
	val, ok := v.lookup("compressor")
	if !ok {
		return nil
	}
	s, _ := val.AsString()
	kind := CompressorKind(s)
	if kind != CompressorGzip && kind != CompressorBzip2 {
		return fail(ErrInvalidEnum, "compressor", "Supported compressors are %s, %s", CompressorGzip, CompressorBzip2)
	}

	const levelMsg = "The 'level' parameter takes integers from 1-9"
	level, err := v.optInt("level", levelMsg)
	if err != nil {
		return err
	}
	if level != nil && (*level < MinCompressionLevel || *level > MaxCompressionLevel) {
		return fail(ErrInvalidRange, "level", levelMsg)
	}

	v.m.Compressor = &Compressor{Kind: kind, Level: level}
	return nil
}

// address reads an optional email address option
func (v *validation) address(field string) (string, bool, error) {
	val, ok := v.lookup(field)
	if !ok {
		return "", false, nil
	}
	addr, err := coerce.Email(val)
	if err != nil {
		return "", false, fail(ErrTypeMismatch, field, "%s is not a valid email address", val.Text())
	}
	return addr, true, nil
}

func validateEmail(v *validation) error {
	enabled, err := v.boolOr("enable_email", false)
	if err != nil || !enabled {
		return err
	}

	email := &Email{Domain: v.site.GetDomain()}
	if email.OnSuccess, err = v.boolOr("email_success", true); err != nil {
		return err
	}
	if email.OnWarning, err = v.boolOr("email_warning", true); err != nil {
		return err
	}
	if email.OnFailure, err = v.boolOr("email_failure", true); err != nil {
		return err
	}

	from, ok, err := v.address("email_from")
	if err != nil {
		return err
	}
	if !ok {
		from = "backup@" + email.Domain
	}
	email.From = from

	to, ok, err := v.address("email_to")
	if err != nil {
		return err
	}
	if !ok {
		return fail(ErrMissingRequired, "email_to", "A destination email address is required with email notifications enabled")
	}
	email.To = to

	if email.RelayHost, err = v.textOr("relay_host", defaultRelayHost); err != nil {
		return err
	}
	email.RelayPort = defaultRelayPort
	if val, ok := v.lookup("relay_port"); ok {
		port, err := coerce.Port(val)
		if err != nil {
			return fail(ErrTypeMismatch, "relay_port", "relay_port must be a port number")
		}
		email.RelayPort = port
	}

	v.m.Email = email
	return nil
}

func validateChat(v *validation) error {
	enabled, err := v.boolOr("enable_hc", false)
	if err != nil || !enabled {
		return err
	}

	chat := &Chat{}
	if chat.OnSuccess, err = v.boolOr("hc_success", true); err != nil {
		return err
	}
	if chat.OnWarning, err = v.boolOr("hc_warning", true); err != nil {
		return err
	}
	if chat.OnFailure, err = v.boolOr("hc_failure", true); err != nil {
		return err
	}
	if chat.Token, err = v.require("hc_token", "Parameter hc_token is required for hipchat notifications"); err != nil {
		return err
	}

	const roomsMsg = "hc_notify needs to be a room name or an array of room names"
	if !v.def.Has("hc_notify") {
		return fail(ErrMissingRequired, "hc_notify", roomsMsg)
	}
	rooms, err := v.optList("hc_notify", roomsMsg)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if strings.TrimSpace(room) != "" {
			chat.Rooms = append(chat.Rooms, room)
		}
	}
	if len(chat.Rooms) == 0 {
		return fail(ErrMissingRequired, "hc_notify", roomsMsg)
	}

	if chat.From, _, err = v.text("hc_from"); err != nil {
		return err
	}

	v.m.Chat = chat
	return nil
}

func validateLogging(v *validation) error {
	var err error
	if v.m.Logging.ConsoleQuiet, err = v.optBool("console_quiet"); err != nil {
		return err
	}
	if v.m.Logging.LogfileEnabled, err = v.optBool("logfile_enabled"); err != nil {
		return err
	}
	v.m.Logging.SyslogEnabled, err = v.optBool("syslog_enabled")
	return err
}

func validateHooks(v *validation) error {
	var err error
	if v.m.Hooks.Before, err = v.optList("before_job", "The before_job parameter takes either a string or an array of strings"); err != nil {
		return err
	}
	v.m.Hooks.After, err = v.optList("after_job", "The after_job parameter takes either a string or an array of strings")
	return err
}

// cronField reads one schedule field; sequences are joined with commas
func (v *validation) cronField(field, fallback string) (string, error) {
	val, ok := v.lookup(field)
	if !ok {
		return fallback, nil
	}
	if val.IsMapping() {
		return "", fail(ErrTypeMismatch, field, "The %s parameter must be a string or an array", field)
	}
	if val.IsScalar() {
		return val.Text(), nil
	}
	parts := make([]string, 0, val.Len())
	for _, item := range val.Items() {
		if !item.IsScalar() {
			return "", fail(ErrTypeMismatch, field, "The %s parameter must be a string or an array", field)
		}
		parts = append(parts, item.Text())
	}
	return strings.Join(parts, ","), nil
}

func validateSchedule(v *validation) error {
	s := Schedule{
		ConfigFile: v.site.GetConfigFile(),
	}

	bin, ok, err := v.strictString("gem_bin_path")
	if err != nil {
		return err
	}
	if ok && !strings.HasPrefix(bin, "/") {
		return fail(ErrTypeMismatch, "gem_bin_path", "The gem_bin_path parameter must be an absolute path")
	}
	if !ok {
		bin = v.site.GetBinPath()
	}
	s.BinPath = bin

	tmp, ok, err := v.strictString("tmp_path")
	if err != nil {
		return err
	}
	if !ok {
		tmp = v.site.GetTmpPath()
	}
	s.TmpPath = tmp

	fields := []struct {
		name     string
		fallback string
		dst      *string
	}{
		{"minute", DefaultMinute, &s.Minute},
		{"hour", DefaultHour, &s.Hour},
		{"monthday", DefaultMonthDay, &s.MonthDay},
		{"month", DefaultMonth, &s.Month},
		{"weekday", DefaultWeekday, &s.Weekday},
	}
	for _, f := range fields {
		if *f.dst, err = v.cronField(f.name, f.fallback); err != nil {
			return err
		}
	}

	if _, err := cron.ParseStandard(s.Expression()); err != nil {
		return fail(ErrInvalidRange, "schedule", "Invalid cron schedule '%s'", s.Expression())
	}

	v.m.Schedule = s
	return nil
}
