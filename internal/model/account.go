package model

import "strings"

// encodedPlusPrefix is how some sources store the "+959" country prefix
const encodedPlusPrefix = "%2B959"

// Account is one phone/access-token/user-id record from a data source.
// Records are read once per run and never modified.
type Account struct {
	Phone  string `json:"phone"`  // Phone number as stored by the source (may be URL-encoded)
	Access string `json:"access"` // Bearer access token
	UserID string `json:"userid"` // Upstream user id
}

// MSISDN returns the phone number with the encoded "+959" prefix decoded,
// as the rewards API expects it in the msisdn query parameter.
func (a Account) MSISDN() string {
	return strings.ReplaceAll(a.Phone, encodedPlusPrefix, "+959")
}
