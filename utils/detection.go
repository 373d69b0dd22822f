package utils

import (
	"math/rand"

	"aerogrow/models"
)

// Detection constants
const (
	minSampleLength        = 1000
	invalidSampleScore     = 0.1
	minMineralConfidence   = 0.15
	maxMineralConfidence   = 0.98
	iridiumBaseConfidence  = 0.76
	noMineralContentReason = "No mineral content detected"
)

// DetectedMineral is one classification produced by DetectMinerals.
type DetectedMineral struct {
	Name        string             `json:"name"`
	Confidence  float64            `json:"confidence"`
	Composition map[string]float64 `json:"composition"`
	Properties  map[string]float64 `json:"properties"`
}

// DetectionResult is the outcome of analysing one sample image.
type DetectionResult struct {
	Minerals          []DetectedMineral `json:"minerals"`
	OverallConfidence float64           `json:"overallConfidence"`
	Message           string            `json:"message,omitempty"`
}

func mineralCatalogue() []DetectedMineral {
	return []DetectedMineral{
		{"Iron Ore", 0.85, map[string]float64{"fe": 65.2, "o": 34.8}, map[string]float64{"density": 5.2, "hardness": 6.5}},
		{"Quartz", 0.78, map[string]float64{"si": 46.7, "o": 53.3}, map[string]float64{"density": 2.65, "hardness": 7}},
		{"Calcite", 0.72, map[string]float64{"ca": 40.0, "c": 12.0, "o": 48.0}, map[string]float64{"density": 2.71, "hardness": 3}},
		{"Feldspar", 0.68, map[string]float64{"al": 9.1, "si": 30.3, "o": 48.6, "k": 12.0}, map[string]float64{"density": 2.56, "hardness": 6}},
		{"Mica", 0.65, map[string]float64{"k": 8.8, "al": 12.1, "si": 25.4, "o": 43.2}, map[string]float64{"density": 2.8, "hardness": 2.5}},
		{"Pyrite", 0.82, map[string]float64{"fe": 46.6, "s": 53.4}, map[string]float64{"density": 5.02, "hardness": 6.5}},
		{"Gypsum", 0.71, map[string]float64{"ca": 23.3, "s": 18.6, "o": 55.8, "h": 2.3}, map[string]float64{"density": 2.32, "hardness": 2}},
	}
}

// DetectMinerals simulates classification of imageData with model. Samples
// of at most 1000 characters yield no catalogue minerals and a confidence
// of 0.1. Otherwise one to three distinct minerals are drawn from the
// catalogue with confidence scaled by the model accuracy. Models
// specialized for iridium also report Iridium on both paths; it does not
// count towards the overall confidence.
func DetectMinerals(imageData string, model models.MlModel, rng *rand.Rand) DetectionResult {
	var result DetectionResult
	if len(imageData) <= minSampleLength {
		result = DetectionResult{
			Minerals:          []DetectedMineral{},
			OverallConfidence: invalidSampleScore,
			Message:           noMineralContentReason,
		}
	} else {
		result = sampleCatalogue(model, rng)
	}

	for _, target := range model.SpecializedFor() {
		if target == "iridium" {
			result.Minerals = append(result.Minerals, DetectedMineral{
				Name:        "Iridium",
				Confidence:  iridiumBaseConfidence * model.Accuracy,
				Composition: map[string]float64{"ir": 95.7, "pt": 3.1, "ru": 1.2},
				Properties:  map[string]float64{"density": 22.56, "hardness": 6.5},
			})
			break
		}
	}
	return result
}

func sampleCatalogue(model models.MlModel, rng *rand.Rand) DetectionResult {
	pool := mineralCatalogue()
	count := rng.Intn(3) + 1
	detected := make([]DetectedMineral, 0, count+1)
	var sum float64

	for i := 0; i < count; i++ {
		idx := rng.Intn(len(pool))
		m := pool[idx]
		m.Confidence = clamp(m.Confidence*model.Accuracy*(0.8+rng.Float64()*0.4), minMineralConfidence, maxMineralConfidence)
		detected = append(detected, m)
		sum += m.Confidence

		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return DetectionResult{
		Minerals:          detected,
		OverallConfidence: sum / float64(count),
	}
}

// MineralNames lists the names of the detected minerals in order.
func (r DetectionResult) MineralNames() []string {
	names := make([]string, 0, len(r.Minerals))
	for _, m := range r.Minerals {
		names = append(names, m.Name)
	}
	return names
}
