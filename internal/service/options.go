package service

import "math/rand"

const distractorCount = 3

// seededRand returns a generator whose ordering is reproducible for a given
// id, so re-rendering the same question keeps its option order stable.
func seededRand(id int64) *rand.Rand {
	return rand.New(rand.NewSource(id))
}

// pickDistractors draws up to count distractors from the candidate texts,
// skipping duplicates and anything equal to the correct answer. Fewer
// candidates than count simply yields a shorter list.
func pickDistractors(rng *rand.Rand, candidates []string, correct string, count int) []string {
	unique := make([]string, 0, len(candidates))
	seen := map[string]struct{}{correct: {}}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}

	rng.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})

	if len(unique) > count {
		unique = unique[:count]
	}
	return unique
}

// buildOptions combines the correct answer with distractors drawn from the
// candidate pool and shuffles the result.
func buildOptions(rng *rand.Rand, correct string, candidates []string) []string {
	distractors := pickDistractors(rng, candidates, correct, distractorCount)

	options := make([]string, 0, 1+len(distractors))
	options = append(options, correct)
	options = append(options, distractors...)

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}
