package ai

// Prompt templates rendered with pkg/ollama.RenderTemplate.

const postingPromptTemplate = `You are an assistant that extracts structured data from job postings.
Extract the following fields from the posting below and answer with a single JSON object only, no prose:
- title, company_name, apply_email, email_subject, email_body
- industry: {name, code}
- tags: list of {name, category, color}
- requirements: {education, experience, location, salary, skills[]}
- confidence: number between 0 and 1

Posting:
{{.Raw}}
`

const resumePromptTemplate = `You are an assistant that extracts structured data from resumes.
Extract the following fields and answer with a single JSON object only, no prose:
- name, email, summary, years_experience, education, location
- skills: list of strings

Resume:
{{.Raw}}
`
