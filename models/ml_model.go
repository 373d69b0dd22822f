package models

import "time"

type MlModel struct {
	ID           uint                   `json:"id" gorm:"primaryKey"`
	Name         string                 `json:"name" gorm:"not null" binding:"required"`
	Version      string                 `json:"version" gorm:"not null" binding:"required"`
	Accuracy     float64                `json:"accuracy" binding:"gte=0,lte=1"`
	IsActive     bool                   `json:"isActive" gorm:"not null;index"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	Parameters   map[string]interface{} `json:"parameters" gorm:"serializer:json;type:text"`
	TrainingDate *time.Time             `json:"trainingDate"`
}

// SpecializedFor lists the targets named in the model's "specializedFor" parameter.
func (m MlModel) SpecializedFor() []string {
	raw, ok := m.Parameters["specializedFor"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// MlAnalysis is the stored output of running a model against a scan.
type MlAnalysis struct {
	ID              uint                   `json:"id" gorm:"primaryKey"`
	ScanID          uint                   `json:"scanId" gorm:"not null;index" binding:"required"`
	Scan            *Scan                  `json:"-"`
	ModelID         uint                   `json:"modelId" gorm:"not null;index" binding:"required"`
	Model           *MlModel               `json:"-"`
	ConfidenceScore float64                `json:"confidenceScore" binding:"gte=0,lte=1"`
	AnalysisDate    time.Time              `json:"analysisDate" gorm:"not null;index"`
	Results         map[string]interface{} `json:"results" gorm:"serializer:json;type:text" binding:"required"`
	ProcessingTime  *float64               `json:"processingTime"`
	Tags            []string               `json:"tags" gorm:"serializer:json;type:text"`
}

func (MlAnalysis) TableName() string {
	return "ml_analyses"
}
