package kafka

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		list     string
		expected []string
	}{
		{list: "", expected: nil},
		{list: " , ", expected: nil},
		{list: "localhost:9092", expected: []string{"localhost:9092"}},
		{list: "a:9092, b:9092,", expected: []string{"a:9092", "b:9092"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseBrokers(tt.list), tt.list)
	}
}

func TestCreateChannel_RequiresBrokers(t *testing.T) {
	_, _, err := CreateChannel(watermill.NopLogger{}, "alchemist-api", nil)
	assert.Error(t, err)
}
