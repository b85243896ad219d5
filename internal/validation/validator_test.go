// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	TopN   int     `validate:"min=1,max=100"`
	MinSim float64 `validate:"gte=0,lte=1"`
	Query  string  `validate:"omitempty,min=2"`
}

func TestValidateStructPasses(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sampleRequest{TopN: 20, MinSim: 0.05}))
	assert.Nil(t, ValidateStruct(&sampleRequest{TopN: 1, MinSim: 1, Query: "it"}))
}

func TestValidateStructReportsAllFailures(t *testing.T) {
	err := ValidateStruct(&sampleRequest{TopN: 0, MinSim: 2, Query: "x"})
	require.NotNil(t, err)
	assert.Len(t, err.Fields, 3)
	assert.Contains(t, err.Error(), "TopN must be at least 1")
	assert.Contains(t, err.Error(), "MinSim must be at most 1")
}

func TestValidateStructConcurrent(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				ValidateStruct(&sampleRequest{TopN: 20, MinSim: 0.5})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
