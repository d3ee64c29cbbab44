package entities

import "time"

// Conversation is the root entity grouping messages and uploaded files.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	Title     string    `gorm:"type:varchar(256);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Files    []File    `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message is a single immutable turn entry within a conversation.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	PublicID       string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	ConversationID uint      `gorm:"index:idx_message_conversation_created;not null"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"index:idx_message_conversation_created;autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

// File is an ingested document. ExtractedText is capped at ingestion time.
type File struct {
	ID             uint      `gorm:"primaryKey"`
	PublicID       string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	ConversationID uint      `gorm:"index;not null"`
	OriginalName   string    `gorm:"type:varchar(255);not null"`
	StoragePath    string    `gorm:"type:varchar(255);not null"`
	MimeType       string    `gorm:"type:varchar(64)"`
	Size           int64     `gorm:"not null"`
	ExtractedText  *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}

// MessageFile records which files were in scope for a given message.
// The composite primary key makes duplicate links a no-op at insert time.
type MessageFile struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false"`
	FileID    uint      `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MessageFile) TableName() string {
	return "message_files"
}
