package collision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/collision"
)

var referenceReport = collision.Report{
	Scenario: referenceScenario,
	Result: collision.Result{
		DeltaVTarget:   68.01,
		DeltaVBullet:   9.29,
		SeverityTarget: collision.S3,
		SeverityBullet: collision.S1,
	},
}

const referenceReportText = `Collision Severity Inputs:
- Collision Type for Vehicle 1: Head-On
- Collision Type for Vehicle 2: Head-On
- Initial Speed of Target: 23.60 kph
- Initial Speed of Bullet: 35.98 kph
- Average J2980 Vehicle Mass: 4500.00 kg
- Average Vehicle Under Analysis Mass: 36500.00 kg
- Bound Type: Average

Collision Severity Results:
- Target Severity: S3
- Bullet Severity: S1
- Target Delta-V: 68.01 kph
- Bullet Delta-V: 9.29 kph
`

func TestRenderReference(t *testing.T) {
	assert.Equal(t, referenceReportText, referenceReport.Render())
}

func TestParseRenderRoundTrip(t *testing.T) {
	r, err := collision.Parse(referenceReportText)
	assert.Nil(t, err)
	assert.Equal(t, referenceReport, r)
	// 往返逐字节一致
	assert.Equal(t, referenceReportText, r.Render())
}

func TestRenderFromEvaluation(t *testing.T) {
	res, err := collision.Evaluate(referenceScenario)
	assert.Nil(t, err)
	text := collision.Report{Scenario: referenceScenario, Result: res}.Render()
	// 评估结果渲染后与参考工件一致（数值保留两位小数）
	assert.Equal(t, referenceReportText, text)
}

func TestParseMalformed(t *testing.T) {
	for name, text := range map[string]string{
		"empty":          "",
		"missing header": "- Collision Type for Vehicle 1: Head-On\n",
		"swapped lines": `Collision Severity Inputs:
- Collision Type for Vehicle 2: Head-On
- Collision Type for Vehicle 1: Head-On
`,
		"bad enum value": `Collision Severity Inputs:
- Collision Type for Vehicle 1: Sideways
`,
		"missing unit": `Collision Severity Inputs:
- Collision Type for Vehicle 1: Head-On
- Collision Type for Vehicle 2: Head-On
- Initial Speed of Target: 23.60
`,
		"trailing content": referenceReportText + "extra\n",
	} {
		_, err := collision.Parse(text)
		assert.ErrorIs(t, err, collision.ErrBadReport, name)
	}
}
