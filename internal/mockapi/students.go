package mockapi

import (
	"math/rand"

	"homeboard/internal/domain"
)

var firstNames = []string{
	"Amy", "Bob", "Charlie", "Dana", "Eli", "Fatima", "George", "Hana", "Ivan", "Jade",
	"Kofi", "Lena", "Mateo", "Nia", "Oscar", "Priya", "Quinn", "Rosa", "Sami", "Tariq",
}

var lastNames = []string{
	"Young", "Zed", "Adams", "Baker", "Chen", "Diaz", "Evans", "Fischer", "Garcia", "Haddad",
	"Ito", "Jensen", "Kowalski", "Lopez", "Mensah", "Nakamura", "Okafor", "Patel", "Rossi", "Smith",
}

// SampleStudents builds n students with ids 1..n. The same seed yields the same roster.
func SampleStudents(n int, seed int64) []domain.Person {
	if n <= 0 {
		return []domain.Person{}
	}
	rng := rand.New(rand.NewSource(seed))
	students := make([]domain.Person, n)
	for i := range students {
		students[i] = domain.Person{
			ID:        i + 1,
			FirstName: firstNames[rng.Intn(len(firstNames))],
			LastName:  lastNames[rng.Intn(len(lastNames))],
		}
	}
	return students
}
