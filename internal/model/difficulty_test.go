package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficulty_Increase(t *testing.T) {
	tests := []struct {
		in   Difficulty
		want Difficulty
	}{
		{Easy, Medium},
		{Medium, Hard},
		{Hard, Hard},
		{Difficulty("unknown"), Medium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Increase(), "Increase(%q)", tt.in)
	}
}

func TestDifficulty_Decrease(t *testing.T) {
	tests := []struct {
		in   Difficulty
		want Difficulty
	}{
		{Hard, Medium},
		{Medium, Easy},
		{Easy, Easy},
		{Difficulty("unknown"), Easy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Decrease(), "Decrease(%q)", tt.in)
	}
}

func TestDifficulty_NeverSkipsATier(t *testing.T) {
	assert.NotEqual(t, Hard, Easy.Increase())
	assert.NotEqual(t, Easy, Hard.Decrease())
}

func TestDifficulty_Valid(t *testing.T) {
	assert.True(t, Easy.Valid())
	assert.True(t, Medium.Valid())
	assert.True(t, Hard.Valid())
	assert.False(t, Difficulty("beginner").Valid())
	assert.False(t, Difficulty("").Valid())
}
