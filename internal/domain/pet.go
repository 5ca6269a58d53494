package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Species string

const (
	SpeciesDog       Species = "Dog"
	SpeciesCat       Species = "Cat"
	SpeciesBird      Species = "Bird"
	SpeciesFish      Species = "Fish"
	SpeciesRabbit    Species = "Rabbit"
	SpeciesHamster   Species = "Hamster"
	SpeciesGuineaPig Species = "GuineaPig"
	SpeciesReptile   Species = "Reptile"
	SpeciesOther     Species = "Other"
)

func ParseSpecies(s string) (Species, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dog":
		return SpeciesDog, true
	case "cat":
		return SpeciesCat, true
	case "bird":
		return SpeciesBird, true
	case "fish":
		return SpeciesFish, true
	case "rabbit":
		return SpeciesRabbit, true
	case "hamster":
		return SpeciesHamster, true
	case "guineapig", "guinea_pig", "guinea pig":
		return SpeciesGuineaPig, true
	case "reptile":
		return SpeciesReptile, true
	case "other":
		return SpeciesOther, true
	default:
		return "", false
	}
}

type Pet struct {
	ID           uuid.UUID  `json:"id"`
	OwnerUserID  uuid.UUID  `json:"ownerUserId"`
	Name         string     `json:"name"`
	Species      Species    `json:"species"`
	Breed        string     `json:"breed,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Color        string     `json:"color,omitempty"`
	Weight       *float64   `json:"weight,omitempty"`
	MedicalNotes string     `json:"medicalNotes,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// AgeInYears is floor(days since birth / 365.25), nil when the date of
// birth is unknown.
func (p *Pet) AgeInYears() *int {
	return ageAt(p.DateOfBirth, time.Now())
}

func ageAt(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	days := now.Sub(*dob).Hours() / 24
	age := int(math.Floor(days / 365.25))
	return &age
}

// PetWithOwner is the admin list row: the pet joined with its owner's name
// in a single query instead of a per-row lookup.
type PetWithOwner struct {
	Pet
	OwnerFullName string `json:"ownerFullName"`
}
