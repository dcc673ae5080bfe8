package model

// Speaker is a conference speaker. List fetches return summaries; the
// remaining fields arrive through a detail fetch merged with MergeDetails.
type Speaker struct {
	UUID             string `json:"uuid"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Company          string `json:"company,omitempty"`
	AvatarURL        string `json:"avatarURL,omitempty"`
	Bio              string `json:"bio,omitempty"`
	BioAsHTML        string `json:"bioAsHtml,omitempty"`
	Blog             string `json:"blog,omitempty"`
	Twitter          string `json:"twitter,omitempty"`
	Lang             string `json:"lang,omitempty"`
	AcceptedTalks    []Talk `json:"acceptedTalks,omitempty"`
	DetailsRetrieved bool   `json:"-"`
}

// FullName joins first and last name.
func (s Speaker) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// MergeDetails copies the detail fields of d into s and marks s as retrieved.
// The UUID of s is kept.
func (s *Speaker) MergeDetails(d Speaker) {
	s.AcceptedTalks = append([]Talk(nil), d.AcceptedTalks...)
	s.AvatarURL = d.AvatarURL
	s.Bio = d.Bio
	s.BioAsHTML = d.BioAsHTML
	s.Blog = d.Blog
	s.Company = d.Company
	s.FirstName = d.FirstName
	s.LastName = d.LastName
	s.Lang = d.Lang
	s.Twitter = d.Twitter
	s.DetailsRetrieved = true
}
