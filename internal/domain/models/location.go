package models

// Location is one branch on the roster. The roster supplies the coverage
// denominators; it is never derived from the visit records themselves.
type Location struct {
	ID       string   `bson:"_id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Category Category `bson:"category" json:"category"`
	Region   string   `bson:"region,omitempty" json:"region,omitempty"`
}
