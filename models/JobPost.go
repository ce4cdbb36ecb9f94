package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobPost struct {
	gorm.Model
	EmployerID     uint           `json:"employerID" gorm:"not null;index"`
	Title          string         `json:"title" gorm:"size:256;not null"`
	Company        string         `json:"company" gorm:"size:256"`
	Description    string         `json:"description" gorm:"type:text"`
	Location       string         `json:"location" gorm:"size:256;index"`
	Remote         bool           `json:"remote"`
	EmploymentType string         `json:"employmentType" gorm:"size:32;index"` // full_time, part_time, contract, internship
	SalaryMin      int            `json:"salaryMin"`
	SalaryMax      int            `json:"salaryMax"`
	Currency       string         `json:"currency" gorm:"size:8"`
	Skills         datatypes.JSON `json:"skills"`
	Status         string         `json:"status" gorm:"size:16;default:'open';index"` // open, closed

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:JobPostID;references:ID"`
}

func (p *JobPost) MarshalJSON() ([]byte, error) {
	type Alias JobPost
	aux := &struct {
		Skills []string `json:"skills,omitempty"`
		*Alias
	}{
		Skills: []string{},
		Alias:  (*Alias)(p),
	}

	if p.Skills != nil {
		var skills []string
		if err := json.Unmarshal(p.Skills, &skills); err == nil {
			aux.Skills = skills
		}
	}

	return json.Marshal(aux)
}
