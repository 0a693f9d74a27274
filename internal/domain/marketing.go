package domain

import "time"

// SiteService is an entry in the "our services" section, ordered by Sort.
type SiteService struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:100" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Image     string    `gorm:"size:1024" json:"image"`
	Sort      int       `gorm:"index" json:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteService) TableName() string {
	return "mkt_service"
}

// Certification is a trust logo (partner or certification seal).
type Certification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	Logo        string    `gorm:"size:1024" json:"logo"`
	ExternalURL string    `gorm:"size:512" json:"external_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Certification) TableName() string {
	return "mkt_certification"
}

type Testimonial struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName string    `gorm:"size:100" json:"client_name"`
	ClientRole string    `gorm:"size:100" json:"client_role"`
	Text       string    `gorm:"type:text" json:"text"`
	Photo      string    `gorm:"size:1024" json:"photo"`
	Active     bool      `gorm:"index" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Testimonial) TableName() string {
	return "mkt_testimonial"
}

const (
	ArticleNews     = "NEWS"
	ArticleBlog     = "BLOG"
	ArticleResearch = "RESEARCH"
)

// Article is a published content piece; Kind discriminates the news,
// blog and research sections, which share the same shape.
type Article struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind        string    `gorm:"size:32;index" json:"kind"`
	CategoryID  *int64    `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title       string    `gorm:"size:200" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Cover       string    `gorm:"size:1024" json:"cover"`
	Content     string    `gorm:"type:text" json:"content"`
	Featured    bool      `json:"featured"`
	Published   bool      `gorm:"index" json:"published"`
	PublishedAt time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Article) TableName() string {
	return "mkt_article"
}

// Protocol is a downloadable technical document.
type Protocol struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:200" json:"title"`
	Slug      string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Document  string    `gorm:"size:1024" json:"document"`
	Published bool      `gorm:"index" json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Protocol) TableName() string {
	return "mkt_protocol"
}
