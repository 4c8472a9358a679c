package identity_test

import (
	"math/rand/v2"
	"testing"

	"github.com/hbomb79/Reel/internal/identity"
	utls "github.com/refraction-networking/utls"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRng() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func Test_NewPool_RejectsEmpty(t *testing.T) {
	pool, err := identity.NewPool(nil, nil)
	assert.Nil(t, pool)
	assert.ErrorIs(t, err, identity.ErrEmptyPool)
}

func Test_DefaultIdentities_Coverage(t *testing.T) {
	engines := lo.Uniq(lo.Map(identity.DefaultIdentities, func(id identity.Identity, _ int) identity.Engine { return id.Engine }))
	systems := lo.Uniq(lo.Map(identity.DefaultIdentities, func(id identity.Identity, _ int) string { return id.OS }))

	assert.GreaterOrEqual(t, len(engines), 2, "default pool must span at least two browser engines")
	assert.GreaterOrEqual(t, len(systems), 3, "default pool must span multiple operating systems")
	for _, id := range identity.DefaultIdentities {
		assert.NotEmpty(t, id.UserAgent, "identity %s has no user-agent", id.Name)
		assert.NotEmpty(t, id.Headers, "identity %s has no headers", id.Name)
	}
}

func Test_Sample_SingleIdentityRepeats(t *testing.T) {
	only := identity.Identity{Name: "only", UserAgent: "ua"}
	pool, err := identity.NewPool([]identity.Identity{only}, seededRng())
	require.NoError(t, err)

	// Repeated sampling returning the same identity is expected behaviour
	for i := 0; i < 5; i++ {
		assert.Equal(t, "only", pool.Sample().Name)
	}
}

func Test_Sample_CoversWholePool(t *testing.T) {
	pool, err := identity.NewPool(identity.DefaultIdentities, seededRng())
	require.NoError(t, err)

	seen := make(map[string]int)
	for i := 0; i < 2000; i++ {
		seen[pool.Sample().Name]++
	}

	assert.Len(t, seen, pool.Len(), "uniform sampling should eventually visit every identity")
}

func Test_Sample_ReturnsCopies(t *testing.T) {
	pool, err := identity.NewPool([]identity.Identity{{Name: "a", Headers: map[string]string{"Accept": "x"}}}, nil)
	require.NoError(t, err)

	first := pool.Sample()
	first.Headers["Accept"] = "mutated"

	assert.Equal(t, "x", pool.Sample().Headers["Accept"])
}

func Test_Rotation_NoRepeatUntilExhausted(t *testing.T) {
	pool, err := identity.NewPool(identity.DefaultIdentities, seededRng())
	require.NoError(t, err)

	rotation := pool.Rotation()
	drawn := make([]string, 0, pool.Len())
	for i := 0; i < pool.Len(); i++ {
		drawn = append(drawn, rotation.Next().Name)
	}

	assert.Len(t, lo.Uniq(drawn), pool.Len(), "rotation must not reuse an identity before the pool is exhausted")

	// Exhausted rotations refill, so drawing again must still succeed
	assert.Contains(t, drawn, rotation.Next().Name)
}

func Test_Merge_OverridesWin(t *testing.T) {
	id := identity.Identity{
		UserAgent: "browser-ua",
		Headers:   map[string]string{"Accept-Language": "en-US", "Accept": "*/*"},
	}

	merged := id.Merge(map[string]string{"User-Agent": "persona-ua", "X-Youtube-Client-Name": "5"})

	assert.Equal(t, "persona-ua", merged.Get("User-Agent"))
	assert.Equal(t, "5", merged.Get("X-Youtube-Client-Name"))
	assert.Equal(t, "en-US", merged.Get("Accept-Language"))
	assert.Equal(t, "*/*", merged.Get("Accept"))
}

func Test_ClientHello_MatchesEngine(t *testing.T) {
	tests := []struct {
		engine   identity.Engine
		expected utls.ClientHelloID
	}{
		{identity.Blink, utls.HelloChrome_Auto},
		{identity.Gecko, utls.HelloFirefox_Auto},
		{identity.WebKit, utls.HelloSafari_Auto},
		{"", utls.HelloChrome_Auto},
	}

	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			assert.Equal(t, tt.expected, identity.Identity{Engine: tt.engine}.ClientHello())
		})
	}
}

func Test_Transport_SharedPerEngine(t *testing.T) {
	a := identity.Identity{Name: "a", Engine: identity.Gecko}.Transport()
	b := identity.Identity{Name: "b", Engine: identity.Gecko}.Transport()
	c := identity.Identity{Name: "c", Engine: identity.Blink}.Transport()

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
