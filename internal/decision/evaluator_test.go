package decision

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectification-lab/internal/domain"
)

func f64(v float64) *float64 { return &v }

func evaluate(t *testing.T, in Input) *Result {
	t.Helper()
	res, err := NewEvaluator().Evaluate(in)
	require.NoError(t, err)
	return res
}

func TestEvaluate_EndToEndAccepted(t *testing.T) {
	res := evaluate(t, Input{Lagna: 135, SphutaPranapada: 135, Gulika: 50, Moon: 48, Tolerance: 2})

	assert.True(t, res.Accepted)
	assert.True(t, res.Record.PassesTrineRule)
	assert.True(t, res.Record.PassesPadekyata)
	assert.Equal(t, 100.0, res.Record.DegreeMatch)
	assert.Equal(t, domain.AnchorPranapada, res.Record.PurificationAnchor)
	assert.Equal(t, domain.PadekyataSphuta, res.Record.PadekyataSource)
	assert.Equal(t, domain.RejectNone, res.Record.Rejection)
	assert.Empty(t, res.Record.Reason)
	assert.InDelta(t, 100.0, res.Record.VerificationScore, 1e-9)
}

func TestEvaluate_TrineFailureRegardlessOfOtherInputs(t *testing.T) {
	// Two signs apart.
	res := evaluate(t, Input{Lagna: 15, SphutaPranapada: 60, Gulika: 15, Moon: 15, Tolerance: 50})

	assert.False(t, res.Record.PassesTrineRule)
	assert.False(t, res.Accepted)
	assert.Equal(t, 10, res.Record.SignDiff)
	assert.Equal(t, domain.BandA, res.Record.NonHumanBand)
	assert.Equal(t, domain.RejectTrine, res.Record.Rejection)
	assert.Contains(t, res.Record.Reason, "trine rule failed")
	assert.Contains(t, res.Record.Reason, "quadruped")
}

func TestTrineRule_AllOffsets(t *testing.T) {
	for s := 0; s < 12; s++ {
		pp := float64(s)*30 + 15
		for k := 0; k < 12; k++ {
			lagna := float64((s+k)%12)*30 + 15
			diff := SignDiff(lagna, pp)
			require.Equal(t, k, diff)

			want := k == 0 || k == 4 || k == 8
			assert.Equal(t, want, IsTrine(diff), "pp sign %d offset %d", s, k)
		}
	}
}

func TestClassifyBand(t *testing.T) {
	tests := map[int]domain.NonHumanBand{
		0: domain.BandNone, 4: domain.BandNone, 8: domain.BandNone,
		2: domain.BandA, 6: domain.BandA, 10: domain.BandA,
		3: domain.BandB, 7: domain.BandB, 11: domain.BandB,
		1: domain.BandC, 5: domain.BandC, 9: domain.BandC,
	}
	for diff, want := range tests {
		assert.Equal(t, want, ClassifyBand(diff), "diff %d", diff)
	}
}

func TestPassesPadekyata_Symmetric(t *testing.T) {
	values := []float64{0, 0.1, 1.9, 2, 2.1, 179, 180, 358.5, 359.9, 721}
	for _, a := range values {
		for _, b := range values {
			for _, tol := range []float64{0, 0.2, 2} {
				assert.Equal(t, PassesPadekyata(a, b, tol), PassesPadekyata(b, a, tol), "a=%v b=%v tol=%v", a, b, tol)
			}
		}
	}
}

func TestEvaluate_PadekyataAcrossZero(t *testing.T) {
	res := evaluate(t, Input{Lagna: 359.5, SphutaPranapada: 0.5, Gulika: 200, Moon: 200, Tolerance: 2})

	// Pisces and Aries are one sign apart, so the trine gate fails while padekyata passes.
	assert.True(t, res.Record.PassesPadekyata)
	assert.InDelta(t, 1.0, res.Record.PadekyataDelta, 1e-9)
	assert.False(t, res.Record.PassesTrineRule)
}

func TestEvaluate_MadhyaOnlyReportedDistinctly(t *testing.T) {
	madhyaOnly := evaluate(t, Input{Lagna: 100, SphutaPranapada: 110, MadhyaPranapada: f64(100.1), Gulika: 200, Moon: 200, Tolerance: 2})
	assert.True(t, madhyaOnly.Accepted)
	assert.Equal(t, domain.PadekyataMadhya, madhyaOnly.Record.PadekyataSource)
	require.NotNil(t, madhyaOnly.Record.MadhyaDelta)
	assert.InDelta(t, 0.1, *madhyaOnly.Record.MadhyaDelta, 1e-9)

	sphutaOnly := evaluate(t, Input{Lagna: 100, SphutaPranapada: 101, MadhyaPranapada: f64(105), Gulika: 200, Moon: 200, Tolerance: 2})
	assert.True(t, sphutaOnly.Accepted)
	assert.Equal(t, domain.PadekyataSphuta, sphutaOnly.Record.PadekyataSource)

	both := evaluate(t, Input{Lagna: 100, SphutaPranapada: 101, MadhyaPranapada: f64(100), Gulika: 200, Moon: 200, Tolerance: 2})
	assert.Equal(t, domain.PadekyataBoth, both.Record.PadekyataSource)

	none := evaluate(t, Input{Lagna: 100, SphutaPranapada: 110, MadhyaPranapada: f64(100.5), Gulika: 200, Moon: 200, Tolerance: 2})
	assert.Equal(t, domain.PadekyataNone, none.Record.PadekyataSource)
	assert.Equal(t, domain.RejectPadekyata, none.Record.Rejection)
}

func TestEvaluate_ZeroToleranceIsExactEquality(t *testing.T) {
	exact := evaluate(t, Input{Lagna: 100, SphutaPranapada: 100, Gulika: 200, Moon: 200, Tolerance: 0})
	assert.True(t, exact.Record.PassesPadekyata)

	off := evaluate(t, Input{Lagna: 100, SphutaPranapada: 100.01, Gulika: 200, Moon: 200, Tolerance: 0})
	assert.False(t, off.Record.PassesPadekyata)
	assert.Equal(t, 0.0, off.Record.DegreeMatch)
}

func TestEvaluate_StrictModeUsesEpsilon(t *testing.T) {
	res := evaluate(t, Input{Lagna: 100, SphutaPranapada: 101, Gulika: 200, Moon: 200, Tolerance: 5, StrictMode: true})

	assert.Equal(t, StrictEpsilon, res.Record.ToleranceUsed)
	assert.False(t, res.Record.PassesPadekyata)
	assert.False(t, res.Accepted)

	relaxed := evaluate(t, Input{Lagna: 100, SphutaPranapada: 101, Gulika: 200, Moon: 200, Tolerance: 5})
	assert.True(t, relaxed.Accepted)
}

func TestEvaluate_AnchorPriority(t *testing.T) {
	// Sphuta 25 degrees away so the pranapada anchor is unavailable.
	base := Input{Lagna: 100, SphutaPranapada: 125, Tolerance: 2}

	tests := []struct {
		name   string
		gulika float64
		moon   float64
		want   domain.PurificationAnchor
	}{
		{"moon before gulika", 101, 101, domain.AnchorMoon},
		{"gulika", 101, 200, domain.AnchorGulika},
		{"gulika opposite", 281, 200, domain.AnchorGulikaOpposite},
		{"moon fallback", 190, 310, domain.AnchorMoonFallback},
		{"none", 190, 200, domain.AnchorNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Gulika = tt.gulika
			in.Moon = tt.moon
			res := evaluate(t, in)
			assert.Equal(t, tt.want, res.Record.PurificationAnchor)
			assert.False(t, res.Accepted)
		})
	}
}

func TestAccepted_RequiresAnchor(t *testing.T) {
	rec := domain.VerificationRecord{
		PassesTrineRule:    true,
		PassesPadekyata:    true,
		PurificationAnchor: domain.AnchorNone,
	}
	assert.False(t, rec.Accepted())

	rec.PurificationAnchor = domain.AnchorMoon
	assert.True(t, rec.Accepted())

	rec.PassesTrineRule = false
	assert.False(t, rec.Accepted())
}

func TestEvaluate_NormalizesInputs(t *testing.T) {
	res := evaluate(t, Input{Lagna: 495, SphutaPranapada: -225, Gulika: 50, Moon: 48, Tolerance: 2})
	assert.True(t, res.Accepted)
	assert.InDelta(t, 0.0, res.Record.PadekyataDelta, 1e-9)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	_, err := NewEvaluator().Evaluate(Input{Lagna: math.NaN(), Tolerance: 2})
	assert.ErrorIs(t, err, ErrNonFiniteAngle)

	_, err = NewEvaluator().Evaluate(Input{MadhyaPranapada: f64(math.Inf(1)), Tolerance: 2})
	assert.ErrorIs(t, err, ErrNonFiniteAngle)

	_, err = NewEvaluator().Evaluate(Input{Tolerance: -1})
	assert.ErrorIs(t, err, ErrNegativeTolerance)
}

func TestAlignmentScore(t *testing.T) {
	assert.Equal(t, 100.0, AlignmentScore(0))
	assert.Equal(t, 100.0, AlignmentScore(1))
	assert.InDelta(t, 50.0, AlignmentScore(15.5), 1e-9)
	assert.Equal(t, 0.0, AlignmentScore(30))
	assert.Equal(t, 0.0, AlignmentScore(90))
}

func TestMoonFallbackScore(t *testing.T) {
	assert.Equal(t, 100.0, MoonFallbackScore(100, 310))
	assert.Equal(t, 0.0, MoonFallbackScore(100, 200))
}

func TestEvaluate_GatesChecklist(t *testing.T) {
	res := evaluate(t, Input{Lagna: 135, SphutaPranapada: 135, MadhyaPranapada: f64(140), Gulika: 50, Moon: 48, Tolerance: 2})

	require.Len(t, res.Gates, 3)
	assert.Equal(t, "Trine rule", res.Gates[0].Name)
	assert.Equal(t, "Padekyata", res.Gates[1].Name)
	assert.Equal(t, "Purification anchor", res.Gates[2].Name)
	for _, g := range res.Gates {
		assert.True(t, g.Pass, g.Name)
	}
	assert.Contains(t, res.Gates[1].Actual, "madhya=5.00°")
}

func TestBuilder_Build(t *testing.T) {
	points := domain.SpecialPoints{
		ActiveGulika:    50,
		MadhyaPranapada: 134,
		SphutaPranapada: 135,
	}
	pos := domain.PlanetaryPositions{domain.Moon: 48}

	in := NewBuilder(1.5, true).Build(135, points, pos)
	assert.Equal(t, 135.0, in.Lagna)
	assert.Equal(t, 135.0, in.SphutaPranapada)
	require.NotNil(t, in.MadhyaPranapada)
	assert.Equal(t, 134.0, *in.MadhyaPranapada)
	assert.Equal(t, 50.0, in.Gulika)
	assert.Equal(t, 48.0, in.Moon)
	assert.Equal(t, 1.5, in.Tolerance)
	assert.True(t, in.StrictMode)
	assert.Equal(t, StrictEpsilon, in.EffectiveTolerance())
}

func TestRenderMarkdown(t *testing.T) {
	accepted := evaluate(t, Input{Lagna: 135, SphutaPranapada: 135, Gulika: 50, Moon: 48, Tolerance: 2})
	md := RenderMarkdown(accepted)
	assert.Contains(t, md, "## Verdict: ACCEPTED")
	assert.Contains(t, md, "| 1 | Trine rule |")
	assert.Contains(t, md, "Gates: 3/3 passed")
	assert.Contains(t, md, "purified by pranapada")

	rejected := evaluate(t, Input{Lagna: 15, SphutaPranapada: 60, Gulika: 50, Moon: 48, Tolerance: 2})
	md = RenderMarkdown(rejected)
	assert.Contains(t, md, "## Verdict: REJECTED")
	assert.True(t, strings.Contains(md, "Rejected (trine)"))
}
