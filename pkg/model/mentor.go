package model

// Mentor is one entry in a course's mentor list.
type Mentor struct {
	Name string `yaml:"name"`

	// Img is a logical image filename resolved through the asset resolver.
	Img string `yaml:"img,omitempty"`

	Role string `yaml:"role,omitempty"`

	Links []MentorLink `yaml:"links,omitempty"`
}

// MentorLink is a typed personal link (mail, github, linkedin, ...).
// The kind selects the icon in mentor listings.
type MentorLink struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}
