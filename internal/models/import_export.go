package models

import "time"

type ImportSummary struct {
	TotalRows        int              `json:"total_rows"`
	SuccessCount     int              `json:"success_count"`
	ErrorCount       int              `json:"error_count"`
	CreatedQuestions []string         `json:"created_questions"`
	Errors           []ImportRowError `json:"errors"`
	ProcessingTime   time.Duration    `json:"processing_time"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
