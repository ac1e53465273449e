package models

import "time"

// KnowledgeDocument is one source file of the knowledge base
type KnowledgeDocument struct {
	Name    string `json:"name"`
	Content string `json:"-"`
}

// KnowledgeStatus summarises the loaded knowledge base
type KnowledgeStatus struct {
	Source    string    `json:"source"`
	Documents []string  `json:"documents"`
	Bytes     int       `json:"bytes"`
	LoadedAt  time.Time `json:"loaded_at"`
}
