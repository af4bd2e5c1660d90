package seeder

// Defaults returns the sample listings seeder, followed by fake job listings
// when fakeJobs > 0.
func Defaults(fakeJobs int, seed int64) []Seeder {
	out := []Seeder{ListingsSeeder{}}
	if fakeJobs > 0 {
		out = append(out, FakeJobsSeeder{Count: fakeJobs, Seed: seed})
	}
	return out
}
