package ai

// JSON schemas the engine validates model output against. Compiled once at
// engine construction; invalid schemas fail startup rather than first use.

const postingSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string"},
    "company_name": {"type": "string"},
    "apply_email": {"type": "string"},
    "email_subject": {"type": "string"},
    "email_body": {"type": "string"},
    "industry": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "code": {"type": "string"}
      }
    },
    "tags": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "category": {"type": "string"},
          "color": {"type": "string"}
        }
      }
    },
    "requirements": {
      "type": "object",
      "properties": {
        "education": {"type": "string"},
        "experience": {"type": "string"},
        "location": {"type": "string"},
        "salary": {"type": "string"},
        "skills": {"type": "array", "items": {"type": "string"}}
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

const resumeSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "email": {"type": "string"},
    "summary": {"type": "string"},
    "years_experience": {"type": "number"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "education": {"type": "string"},
    "location": {"type": "string"}
  }
}`
