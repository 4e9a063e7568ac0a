package service

import "regexp"

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}
