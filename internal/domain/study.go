package domain

import (
	"time"

	"github.com/google/uuid"
)

// Weekday represents the meeting day of a study
type Weekday string

const (
	WeekdayMon      Weekday = "MON"
	WeekdayTue      Weekday = "TUE"
	WeekdayWed      Weekday = "WED"
	WeekdayThu      Weekday = "THU"
	WeekdayFri      Weekday = "FRI"
	WeekdaySat      Weekday = "SAT"
	WeekdaySun      Weekday = "SUN"
	WeekdayWeekdays Weekday = "WEEKDAYS"
	WeekdayWeekends Weekday = "WEEKENDS"
)

// Frequency represents how often a study meets
type Frequency string

const (
	FrequencyOnceAWeek  Frequency = "ONCE_A_WEEK"
	FrequencyTwiceAWeek Frequency = "TWICE_A_WEEK"
	FrequencyEveryday   Frequency = "EVERYDAY"
)

// Location represents where a study meets
type Location string

const (
	LocationOnline  Location = "ONLINE"
	LocationOffline Location = "OFFLINE"
	LocationHybrid  Location = "HYBRID"
)

// CategoryCode represents the subject category of a study
type CategoryCode string

const (
	CategoryProgramming CategoryCode = "PROGRAMMING"
	CategoryDesign      CategoryCode = "DESIGN"
	CategoryLanguage    CategoryCode = "LANGUAGE"
	CategoryFinance     CategoryCode = "FINANCE"
	CategoryEtc         CategoryCode = "ETC"
)

// IsValidWeekday reports whether v is a recognized weekday value
func IsValidWeekday(v string) bool {
	switch Weekday(v) {
	case WeekdayMon, WeekdayTue, WeekdayWed, WeekdayThu, WeekdayFri,
		WeekdaySat, WeekdaySun, WeekdayWeekdays, WeekdayWeekends:
		return true
	}
	return false
}

// IsValidFrequency reports whether v is a recognized frequency value
func IsValidFrequency(v string) bool {
	switch Frequency(v) {
	case FrequencyOnceAWeek, FrequencyTwiceAWeek, FrequencyEveryday:
		return true
	}
	return false
}

// IsValidLocation reports whether v is a recognized location value
func IsValidLocation(v string) bool {
	switch Location(v) {
	case LocationOnline, LocationOffline, LocationHybrid:
		return true
	}
	return false
}

// IsValidCategoryCode reports whether v is a recognized category code
func IsValidCategoryCode(v string) bool {
	switch CategoryCode(v) {
	case CategoryProgramming, CategoryDesign, CategoryLanguage, CategoryFinance, CategoryEtc:
		return true
	}
	return false
}

// Study represents a recruiting study group
type Study struct {
	BaseModel
	HostID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_studies_host_id" json:"host_id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	CategoryCode CategoryCode `gorm:"type:varchar(50);not null;index:idx_studies_category_code" json:"category_code"`
	Weekday      Weekday      `gorm:"type:varchar(20);not null;index:idx_studies_weekday" json:"weekday"`
	Frequency    Frequency    `gorm:"type:varchar(20);not null;index:idx_studies_frequency" json:"frequency"`
	Location     Location     `gorm:"type:varchar(20);not null;index:idx_studies_location" json:"location"`
	Capacity     int          `gorm:"not null" json:"capacity"`
	MembersCount int          `gorm:"not null;default:0" json:"members_count"`
	Vacancy      int          `gorm:"not null;index:idx_studies_vacancy" json:"vacancy"`
	IsOpen       bool         `gorm:"not null;default:true" json:"is_open"`
	ViewCount    int64        `gorm:"not null;default:0" json:"view_count"`
	DueDate      *time.Time   `gorm:"type:timestamp" json:"due_date,omitempty"`
	Memberships  []Membership `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

// TableName specifies the table name for Study
func (Study) TableName() string {
	return "studies"
}

// Recalculate recomputes the derived vacancy and open flag from
// capacity and members count. Must be called before persisting any
// counter change so the invariant vacancy = capacity - membersCount holds.
func (s *Study) Recalculate() {
	s.Vacancy = s.Capacity - s.MembersCount
	s.IsOpen = s.Vacancy > 0
}

// HasVacancy reports whether the study can accept another member
func (s *Study) HasVacancy() bool {
	return s.MembersCount < s.Capacity
}

// IsHostedBy reports whether userID is the host of the study.
// Host-only operations must all go through this predicate.
func (s *Study) IsHostedBy(userID uuid.UUID) bool {
	return s.HostID == userID
}
