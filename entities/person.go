package entities

type Person struct {
	ID             string  `firestore:"id" json:"id"`
	Name           string  `firestore:"name,omitempty" json:"name,omitempty"`
	FirstName      string  `firestore:"firstName,omitempty" json:"firstName,omitempty"`
	LastName       string  `firestore:"lastName,omitempty" json:"lastName,omitempty"`
	Email          string  `firestore:"email,omitempty" json:"email,omitempty"`
	ActiveMealPlan *string `firestore:"activeMealPlan" json:"activeMealPlan"`
}

// Account is a local credential record. It is never returned to clients.
type Account struct {
	UID          string `firestore:"uid" json:"uid"`
	Email        string `firestore:"email" json:"email"`
	PasswordHash string `firestore:"passwordHash" json:"passwordHash"`
	SignedOutAt  int64  `firestore:"signedOutAt" json:"signedOutAt"`
}
