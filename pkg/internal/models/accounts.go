package models

type Account struct {
	BaseModel

	Name         string  `json:"name" gorm:"uniqueIndex;size:80"`
	Nick         *string `json:"nick"`
	Description  string  `json:"description"`
	Avatar       *string `json:"avatar"`
	PasswordHash string  `json:"-"`

	Posts   []Post            `json:"-"`
	Follows []CommunityFollow `json:"-"`
}

// DisplayName falls back to the username when no nick was set.
func (v Account) DisplayName() string {
	if v.Nick != nil && len(*v.Nick) > 0 {
		return *v.Nick
	}
	return v.Name
}
