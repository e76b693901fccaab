/*
Copyright 2025-2026 the Apivet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package generate

import (
	"errors"

	"github.com/lucasjones/reggen"
)

const (
	// patternSampleCount is how many strings are drawn per pattern.
	patternSampleCount = 3

	// patternSampleSeed fixes the sampler's randomness so the synthesizer
	// stays deterministic across runs.
	patternSampleSeed = 1

	// patternRepeatLimit caps unbounded repetitions like "a+" during
	// sampling.
	patternRepeatLimit = 10
)

var errNoSampler = errors.New("pattern sampling unavailable")

// PatternSampler draws example strings matching a regular expression. It is
// an optional capability: synthesis degrades to a documented fallback value
// plus a warning when sampling is unavailable or the pattern is rejected.
type PatternSampler interface {
	Sample(pattern string, n int) ([]string, error)
}

// RegexSampler samples via reggen with a fixed seed.
type RegexSampler struct {
	seed int64
}

// NewRegexSampler returns a sampler whose output is fully determined by the
// given seed.
func NewRegexSampler(seed int64) *RegexSampler {
	return &RegexSampler{seed: seed}
}

func (s *RegexSampler) Sample(pattern string, n int) ([]string, error) {
	gen, err := reggen.NewGenerator(pattern)
	if err != nil {
		return nil, err
	}

	gen.SetSeed(s.seed)

	out := make([]string, 0, n)
	for range n {
		out = append(out, gen.Generate(patternRepeatLimit))
	}

	return out, nil
}
