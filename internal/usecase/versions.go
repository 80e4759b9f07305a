package usecase

import "github.com/enio-ireland/nx/internal/domain"

// inRange reports whether from < v <= to. An unknown from matches nothing.
func inRange(v, from, to string) bool {
	if from == "" {
		return false
	}
	ver, err := domain.ParseVersion(v)
	if err != nil {
		return false
	}
	f, err := domain.ParseVersion(from)
	if err != nil {
		return false
	}
	t, err := domain.ParseVersion(to)
	if err != nil {
		return false
	}
	return ver.GreaterThan(f) && !ver.GreaterThan(t)
}
