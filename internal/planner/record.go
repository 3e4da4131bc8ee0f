package planner

import "strings"

// Rating is the optional verdict on a day. The empty rating means unset.
type Rating string

const (
	RatingNone      Rating = ""
	RatingExcellent Rating = "excellent"
	RatingAverage   Rating = "average"
	RatingTerrible  Rating = "terrible"
)

// Ratings lists the settable ratings, best first.
var Ratings = []Rating{RatingExcellent, RatingAverage, RatingTerrible}

func ParseRating(s string) (Rating, error) {
	switch r := Rating(strings.ToLower(strings.TrimSpace(s))); r {
	case RatingNone, RatingExcellent, RatingAverage, RatingTerrible:
		return r, nil
	case "none", "null":
		return RatingNone, nil
	}
	return "", invalid("rating", s, "want excellent, average, terrible or none")
}

// DayRecord holds the per-day note and rating.
type DayRecord struct {
	Note   string `json:"note,omitempty"`
	Rating Rating `json:"rating,omitempty"`
}

func (r DayRecord) IsZero() bool {
	return r.Note == "" && r.Rating == RatingNone
}
