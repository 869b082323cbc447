package config

// JobsSchema is the JSON schema for the shape of a jobs document. Option
// values are left to the job validator so that a bad option fails only its
// own job.
const JobsSchema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "jobs": {
            "type": "object",
            "description": "Backup jobs keyed by title",
            "propertyNames": {
                "minLength": 1
            },
            "additionalProperties": {
                "type": ["object", "null"]
            }
        }
    },
    "required": ["jobs"],
    "additionalProperties": false
}`
