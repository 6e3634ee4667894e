package domain

import "strings"

// Address is a hex account address as received from a caller, in whatever
// case the caller used
type Address string

func (a Address) ToLower() Address {
	return Address(a.ToLowerStr())
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}
