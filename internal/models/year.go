package models

// Year describes one academic year of the programme.
type Year struct {
	Slug  YearSlug `json:"slug"`
	Title string   `json:"title"`
}

// Years lists the academic years in order.
func Years() []Year {
	return []Year{
		{Slug: YearFirst, Title: "First Year"},
		{Slug: YearSecond, Title: "Second Year"},
		{Slug: YearThird, Title: "Third Year"},
		{Slug: YearFourth, Title: "Fourth Year"},
	}
}
