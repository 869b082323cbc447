package fragment

import (
	"strconv"

	"github.com/williamokano/backupgen/pkg/job"
)

// Logging is emitted only when at least one flag was set explicitly
func Logging(m *job.Model) (Fragment, bool) {
	l := m.Logging
	if !l.Configured() {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "Logger.configure do")
	if l.ConsoleQuiet != nil {
		w.assign(2, "console", "quiet", boolean(*l.ConsoleQuiet))
	}
	if l.LogfileEnabled != nil {
		w.assign(2, "logfile", "enabled", boolean(*l.LogfileEnabled))
	}
	if l.SyslogEnabled != nil {
		w.assign(2, "syslog", "enabled", boolean(*l.SyslogEnabled))
	}
	w.line(1, "end")
	return newFragment(m, "logging", w)
}

func Before(m *job.Model) (Fragment, bool) {
	return hook(m, "before", m.Hooks.Before)
}

func After(m *job.Model) (Fragment, bool) {
	return hook(m, "after", m.Hooks.After)
}

// hook writes the entries verbatim; they are Ruby statements
func hook(m *job.Model, section string, entries []string) (Fragment, bool) {
	if len(entries) == 0 {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "%s do", section)
	for _, e := range entries {
		w.line(2, "%s", e)
	}
	w.line(1, "end")
	return newFragment(m, section, w)
}

func notifyFlags(w *writer, obj string, success, warning, failure bool) {
	w.assign(2, obj, "on_success", boolean(success))
	w.assign(2, obj, "on_warning", boolean(warning))
	w.assign(2, obj, "on_failure", boolean(failure))
	w.blank()
}

func Email(m *job.Model) (Fragment, bool) {
	e := m.Email
	if e == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "notify_by Mail do |mail|")
	notifyFlags(w, "mail", e.OnSuccess, e.OnWarning, e.OnFailure)
	w.assign(2, "mail", "from", quote(e.From))
	w.assign(2, "mail", "to", quote(e.To))
	w.assign(2, "mail", "address", quote(e.RelayHost))
	w.assign(2, "mail", "port", strconv.Itoa(e.RelayPort))
	w.assign(2, "mail", "domain", quote(e.Domain))
	w.assign(2, "mail", "delivery_method", symbol("smtp"))
	w.line(1, "end")
	return newFragment(m, "email", w)
}

func HipChat(m *job.Model) (Fragment, bool) {
	c := m.Chat
	if c == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "notify_by HipChat do |hipchat|")
	notifyFlags(w, "hipchat", c.OnSuccess, c.OnWarning, c.OnFailure)
	w.assign(2, "hipchat", "token", single(c.Token))
	if c.From != "" {
		w.assign(2, "hipchat", "from", single(c.From))
	}
	w.assign(2, "hipchat", "rooms_notified", list(c.Rooms))
	w.line(1, "end")
	return newFragment(m, "hipchat", w)
}
