package models

// Domain models matching the database schema in db/migrations/0001_init.sql

import "encoding/json"

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

type Industry struct {
	ID        int64  `json:"id" db:"id"`
	Code      string `json:"code" db:"code"`
	Name      string `json:"name" db:"name"`
	ParentID  *int64 `json:"parent_id,omitempty" db:"parent_id"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
	IsActive  bool   `json:"is_active" db:"is_active"`
	Created   int64  `json:"created" db:"created"`
	Updated   int64  `json:"updated" db:"updated"`
}

type Tag struct {
	ID       int64  `json:"id" db:"id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Color    string `json:"color" db:"color"`
	IsActive bool   `json:"is_active" db:"is_active"`
	Created  int64  `json:"created" db:"created"`
	Updated  int64  `json:"updated" db:"updated"`
}

// Requirements holds the structured requirement fields of a posting.
type Requirements struct {
	Education  string   `json:"education,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Location   string   `json:"location,omitempty"`
	Salary     string   `json:"salary,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

type Posting struct {
	ID           int64        `json:"id" db:"id"`
	Title        string       `json:"title" db:"title" validate:"required"`
	CompanyName  string       `json:"company_name" db:"company_name"`
	IndustryID   *int64       `json:"industry_id,omitempty" db:"industry_id"`
	IndustryName string       `json:"industry_name,omitempty" db:"industry_name"`
	ApplyEmail   string       `json:"apply_email" db:"apply_email" validate:"required"`
	SubjectTpl   string       `json:"email_subject_template,omitempty" db:"email_subject_template"`
	BodyTpl      string       `json:"email_body_template,omitempty" db:"email_body_template"`
	Requirements Requirements `json:"requirements" db:"requirements"`
	SourceType   string       `json:"source_type" db:"source_type"`
	RawContent   string       `json:"raw_content,omitempty" db:"raw_content"`
	PublishedAt  *int64       `json:"published_at,omitempty" db:"published_at"`
	Status       string       `json:"status" db:"status"`
	TagIDs       []int64      `json:"tag_ids"`
	Created      int64        `json:"created" db:"created"`
	Updated      int64        `json:"updated" db:"updated"`
}

type CartItem struct {
	ID      int64 `json:"id" db:"id"`
	UserID  int64 `json:"user_id" db:"user_id"`
	JobID   int64 `json:"job_id" db:"job_id"`
	Created int64 `json:"created" db:"created"`
}

type Resume struct {
	ID        string `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	FileName  string `json:"file_name" db:"file_name"`
	FilePath  string `json:"-" db:"file_path"`
	MimeType  string `json:"mime_type,omitempty" db:"mime_type"`
	SizeBytes int64  `json:"size_bytes" db:"size_bytes"`
	Created   int64  `json:"created" db:"created"`
	Updated   int64  `json:"updated" db:"updated"`
}

type ResumeParse struct {
	ID       int64  `json:"id" db:"id"`
	ResumeID string `json:"resume_id" db:"resume_id"`
	Parsed   string `json:"parsed" db:"parsed"`
	Model    string `json:"model,omitempty" db:"model"`
	Created  int64  `json:"created" db:"created"`
}

type MatchResult struct {
	ID         int64    `json:"id" db:"id"`
	ResumeID   string   `json:"resume_id" db:"resume_id"`
	JobID      int64    `json:"job_id" db:"job_id"`
	Score      float64  `json:"score" db:"score"`
	Highlights []string `json:"highlights"`
	Created    int64    `json:"created" db:"created"`
}

type DeliveryBatch struct {
	ID       string          `json:"id" db:"id"`
	UserID   int64           `json:"user_id" db:"user_id"`
	ResumeID string          `json:"resume_id" db:"resume_id"`
	Config   json.RawMessage `json:"config,omitempty" db:"config"`
	Created  int64           `json:"created" db:"created"`
}

type Delivery struct {
	ID          int64  `json:"id" db:"id"`
	BatchID     string `json:"batch_id" db:"batch_id"`
	JobID       int64  `json:"job_id" db:"job_id"`
	ResumeID    string `json:"resume_id" db:"resume_id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Status      string `json:"status" db:"status"`
	SentAt      *int64 `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt *int64 `json:"delivered_at,omitempty" db:"delivered_at"`
	ViewedAt    *int64 `json:"viewed_at,omitempty" db:"viewed_at"`
	RepliedAt   *int64 `json:"replied_at,omitempty" db:"replied_at"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}
