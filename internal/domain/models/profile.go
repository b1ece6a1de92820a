package models

// UserProfile is the candidate side of every scoring call. The engine never
// mutates it.
type UserProfile struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
	Phone string `mapstructure:"phone"`

	Skills      ProfileSkills      `mapstructure:"skills"`
	Preferences ProfilePreferences `mapstructure:"preferences"`

	ResumeText string `mapstructure:"resume_text"`
}

type ProfileSkills struct {
	Programming []string `mapstructure:"programming"`
	Domains     []string `mapstructure:"domains"`
	Tools       []string `mapstructure:"tools"`
	Cloud       []string `mapstructure:"cloud"`
}

type ProfilePreferences struct {
	Roles           []string `mapstructure:"roles"`
	WorkModes       []string `mapstructure:"work_mode"`
	EmploymentTypes []string `mapstructure:"employment_type"`
	MinSalary       int      `mapstructure:"min_salary"`
}

// AllSkills returns every profile skill across the four categories, in
// declaration order.
func (s ProfileSkills) AllSkills() []string {
	var skills []string
	skills = append(skills, s.Programming...)
	skills = append(skills, s.Domains...)
	skills = append(skills, s.Tools...)
	skills = append(skills, s.Cloud...)
	return skills
}
