package models

// Field names in form order.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldDOB           = "dob"
	FieldNationality   = "nationality"
	FieldQualification = "qualification"
	FieldCourse        = "course"
	FieldPercentage    = "percentage"
)

// FieldOrder is the fixed order in which a submission's values are collected.
var FieldOrder = []string{
	FieldName, FieldEmail, FieldPhone, FieldAge, FieldGender,
	FieldDOB, FieldNationality, FieldQualification, FieldCourse, FieldPercentage,
}

// FieldLabels are the captions shown next to each input.
var FieldLabels = map[string]string{
	FieldName:          "Candidate Name",
	FieldEmail:         "Candidate Email",
	FieldPhone:         "Candidate Phone",
	FieldAge:           "Age",
	FieldGender:        "Gender",
	FieldDOB:           "Date of Birth",
	FieldNationality:   "Nationality",
	FieldQualification: "Qualification",
	FieldCourse:        "Course",
	FieldPercentage:    "Percentage",
}

// Submission is the raw text of the ten form fields.
type Submission struct {
	Name          string `form:"name" json:"name" validate:"required"`
	Email         string `form:"email" json:"email" validate:"required"`
	Phone         string `form:"phone" json:"phone" validate:"required,phone"`
	Age           string `form:"age" json:"age" validate:"required"`
	Gender        string `form:"gender" json:"gender" validate:"required"`
	DOB           string `form:"dob" json:"dob" validate:"required"`
	Nationality   string `form:"nationality" json:"nationality" validate:"required"`
	Qualification string `form:"qualification" json:"qualification" validate:"required"`
	Course        string `form:"course" json:"course" validate:"required"`
	Percentage    string `form:"percentage" json:"percentage" validate:"required"`
}

// Fields returns the values in FieldOrder.
func (s Submission) Fields() []string {
	return []string{
		s.Name, s.Email, s.Phone, s.Age, s.Gender,
		s.DOB, s.Nationality, s.Qualification, s.Course, s.Percentage,
	}
}

// Get returns the value of the named field.
func (s Submission) Get(field string) string {
	for i, f := range FieldOrder {
		if f == field {
			return s.Fields()[i]
		}
	}
	return ""
}

// SubmissionFromFields builds a Submission from values in FieldOrder.
// Missing trailing values are left empty.
func SubmissionFromFields(v []string) Submission {
	get := func(i int) string {
		if i < len(v) {
			return v[i]
		}
		return ""
	}
	return Submission{
		Name:          get(0),
		Email:         get(1),
		Phone:         get(2),
		Age:           get(3),
		Gender:        get(4),
		DOB:           get(5),
		Nationality:   get(6),
		Qualification: get(7),
		Course:        get(8),
		Percentage:    get(9),
	}
}
