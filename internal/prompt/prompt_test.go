package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	topics := []string{
		"Kinh tế số",
		"Luật đất đai",
		"100% vốn nước ngoài",
		"  khoảng trắng  ",
		`dấu "ngoặc kép"`,
	}

	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			p := Build(topic)

			assert.Contains(t, p, topic)
			for _, d := range Domains {
				assert.Contains(t, p, "site:"+d)
			}

			last := -1
			for _, s := range Sections {
				idx := strings.Index(p, s)
				if assert.GreaterOrEqual(t, idx, 0, "missing section %q", s) {
					assert.Greater(t, idx, last, "section %q out of order", s)
					last = idx
				}
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, Build("Thủ tục đầu tư"), Build("Thủ tục đầu tư"))
	assert.NotEqual(t, Build("a"), Build("b"))
}

func TestBuild_ForbidsPreamble(t *testing.T) {
	p := Build("x")
	assert.Contains(t, p, "KHÔNG ĐƯỢC có lời chào")
	assert.Contains(t, p, "Google Search")
}
