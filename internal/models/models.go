package models

// Gender choices offered by the form surfaces.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Course choices offered by the form surfaces.
const (
	CourseDataScience = "Data Science"
	CourseML          = "Machine Learning"
	CourseAI          = "Artificial Intelligence"
)

var (
	Genders = []string{GenderMale, GenderFemale, GenderOther}
	Courses = []string{CourseDataScience, CourseML, CourseAI}
)

// Student is one persisted enrollment (table "students").
// Age is written as entered; the column's INTEGER affinity converts numeric text.
type Student struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Age           string  `json:"age"`
	Gender        string  `json:"gender"`
	DOB           string  `gorm:"column:dob" json:"dob"`
	Nationality   string  `json:"nationality"`
	Qualification string  `json:"qualification"`
	Course        string  `json:"course"`
	Percentage    float64 `json:"percentage"`
}

func (Student) TableName() string { return "students" }
