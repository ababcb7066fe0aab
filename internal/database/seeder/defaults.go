package seeder

func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
		QuestionsSeeder{},
		ListingSourcesSeeder{},
		ListingsSeeder{},
	}
}
