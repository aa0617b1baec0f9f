package lights

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lightSetFixture struct {
	reg *Registry
	rc  *RenderContext
	amb *AmbientLight
	dir *DirLight
	pt  *PointLight
}

func newFixture() *lightSetFixture {
	f := &lightSetFixture{
		reg: NewRegistry(nil),
		rc:  NewRenderContext(nil, nil),
	}
	f.amb = NewAmbientLight(f.rc, LightConfig{ID: "amb", Ambient: ColorOf(mgl32.Vec3{0.7, 0.7, 0.8})})
	f.dir = NewDirLight(f.rc, LightConfig{
		ID:       "sun",
		Dir:      TripleOf(mgl32.Vec3{-1, -1, -1}),
		Diffuse:  ColorOf(mgl32.Vec3{0.5, 0.7, 0.5}),
		Specular: ColorOf(mgl32.Vec3{1, 1, 1}),
		Space:    SpaceView,
	})
	f.pt = NewPointLight(f.rc, LightConfig{ID: "bulb"})
	f.reg.Register(f.amb)
	f.reg.Register(f.dir)
	f.reg.Register(f.pt)
	return f
}

func countEvents(ls *LightSet) (dirty *int, lights *[][]LightSource) {
	dirty = new(int)
	lights = new([][]LightSource)
	ls.Events().On(EventDirty, func(any) { *dirty++ })
	ls.Events().On(EventLights, func(p any) {
		*lights = append(*lights, p.([]LightSource))
	})
	return dirty, lights
}

func TestLightSet_EndToEndHash(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg, WithID("main"))
	ls.SetLights(f.amb, f.dir)

	d := ls.Compile(f.rc)

	assert.Equal(t, "ambientvdirsdv", d.Hash)
	assert.Equal(t, "lights", d.Type)
	require.Len(t, d.Lights, 2)
	assert.Equal(t, ModeAmbient, d.Lights[0].Mode)
	assert.Equal(t, ModeDir, d.Lights[1].Mode)

	published, ok := f.rc.Lights("main")
	require.True(t, ok)
	assert.Equal(t, d, published)
	assert.Equal(t, d.Hash, ls.Hash())
}

func TestLightSet_EmptyHash(t *testing.T) {
	ls := NewLightSet(nil)
	assert.Equal(t, "", ls.Hash())

	ls.SetLights()
	assert.Equal(t, "", ls.Compile(nil).Hash)

	ls.SetLights("missing")
	assert.Equal(t, "", ls.Compile(nil).Hash)
}

func TestLightSet_SetLightsKeepsValidSubsequence(t *testing.T) {
	f := newFixture()
	mesh := NewTag("mesh", "geometry")
	f.reg.Register(mesh)

	var reported []error
	ls := NewLightSet(f.reg, WithErrorHandler(func(err error) { reported = append(reported, err) }))
	ls.SetLights("sun", "nope", mesh, f.pt, "mesh", 7, nil, "amb")

	assert.Equal(t, []LightSource{f.dir, f.pt, f.amb}, ls.Lights())
	assert.Equal(t, []string{"sun", "bulb", "amb"}, ls.ToPersistableForm())

	errs := ls.Errors()
	require.Len(t, errs, 5)
	assert.True(t, errors.Is(errs[0], ErrUnresolvedReference))
	assert.True(t, errors.Is(errs[1], ErrCapabilityMismatch))
	assert.True(t, errors.Is(errs[2], ErrCapabilityMismatch))
	assert.True(t, errors.Is(errs[3], ErrCapabilityMismatch))
	assert.True(t, errors.Is(errs[4], ErrCapabilityMismatch))
	assert.Equal(t, errs, reported)
}

func TestLightSet_SetLightsAlwaysNotifies(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	dirty, snapshots := countEvents(ls)

	ls.SetLights(f.amb)
	ls.SetLights(f.amb)
	ls.SetLights("missing")

	assert.Equal(t, 3, *dirty)
	require.Len(t, *snapshots, 3)
	assert.Equal(t, []LightSource{f.amb}, (*snapshots)[1])
	assert.Empty(t, (*snapshots)[2])
}

func TestLightSet_ReplacingUnsubscribesOldMembers(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir)
	// one subscription belongs to the registry
	require.Equal(t, 3, f.amb.Events().Len())

	ls.SetLights(f.pt)
	assert.Equal(t, 1, f.amb.Events().Len())
	assert.Equal(t, 1, f.dir.Events().Len())
	assert.Equal(t, 3, f.pt.Events().Len())

	dirty, _ := countEvents(ls)
	f.amb.SetAmbient(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, 0, *dirty, "Former members must not reach the set")

	f.dir.Destroy()
	assert.Equal(t, []LightSource{f.pt}, ls.Lights())
}

func TestLightSet_MemberDirtyBubbles(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir)
	before := ls.Compile(nil)

	dirty, snapshots := countEvents(ls)
	f.dir.SetDir(mgl32.Vec3{0, -1, 0})

	assert.Equal(t, 1, *dirty)
	assert.Empty(t, *snapshots, "Property changes do not change membership")
	assert.Equal(t, before, ls.Descriptor(), "Dirty must not recompile")

	after := ls.Compile(nil)
	assert.Equal(t, [3]float32{0, -1, 0}, after.Lights[1].Dir)
	assert.Equal(t, before.Hash, after.Hash, "Numeric changes keep the variant")
}

func TestLightSet_DestroyRemovesSingleMember(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir, f.pt)
	dirty, snapshots := countEvents(ls)

	f.dir.Destroy()

	assert.Equal(t, []LightSource{f.amb, f.pt}, ls.Lights())
	assert.Len(t, ls.subs, 2)
	assert.Equal(t, 1, *dirty)
	require.Len(t, *snapshots, 1)
	assert.Equal(t, []LightSource{f.amb, f.pt}, (*snapshots)[0])
	assert.Equal(t, "ambientvpointv", ls.Compile(nil).Hash)

	// remaining members stay wired
	f.pt.SetPos(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, 2, *dirty)
	f.pt.Destroy()
	assert.Equal(t, []LightSource{f.amb}, ls.Lights())
}

func TestLightSet_RemoveMissingMemberIsNoop(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir)
	dirty, snapshots := countEvents(ls)

	require.True(t, ls.removeMember(f.dir))
	assert.False(t, ls.removeMember(f.dir))
	assert.False(t, ls.removeMember(f.dir))
	assert.False(t, ls.removeMember(f.pt))

	assert.Equal(t, 1, *dirty)
	assert.Len(t, *snapshots, 1)
	assert.Equal(t, []LightSource{f.amb}, ls.Lights())

	f.dir.Destroy()
	assert.Equal(t, 1, *dirty)
}

func TestLightSet_SnapshotIsolation(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir)

	got := ls.Lights()
	got[0] = f.pt
	_ = append(got[:1], f.pt)

	assert.Equal(t, []LightSource{f.amb, f.dir}, ls.Lights())
}

func TestLightSet_HashIgnoresValues(t *testing.T) {
	a := NewLightSet(nil)
	a.SetLights(
		NewDirLight(nil, LightConfig{Diffuse: ColorOf(mgl32.Vec3{1, 0, 0}), Dir: TripleOf(mgl32.Vec3{1, 0, 0})}),
		NewPointLight(nil, LightConfig{Pos: TripleOf(mgl32.Vec3{3, 3, 3}), QuadraticAttenuation: Float(0.1)}),
	)
	b := NewLightSet(nil)
	b.SetLights(
		NewDirLight(nil, LightConfig{Diffuse: ColorOf(mgl32.Vec3{0, 0, 1}), Dir: TripleOf(mgl32.Vec3{0, 1, 0})}),
		NewPointLight(nil, LightConfig{Pos: TripleOf(mgl32.Vec3{-9, 0, 2})}),
	)

	assert.Equal(t, a.Compile(nil).Hash, b.Compile(nil).Hash)
	assert.Equal(t, "dirdvpointv", a.Hash())
}

func TestLightSet_HashFollowsStructuralChanges(t *testing.T) {
	dir := NewDirLight(nil, LightConfig{})
	ls := NewLightSet(nil)
	ls.SetLights(dir)
	assert.Equal(t, "dirv", ls.Compile(nil).Hash)

	dir.SetSpecular(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, "dirsv", ls.Compile(nil).Hash)

	dir.SetDiffuse(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, "dirsdv", ls.Compile(nil).Hash)

	dir.SetSpace(SpaceWorld)
	assert.Equal(t, "dirsdw", ls.Compile(nil).Hash)

	dir.ClearSpecular()
	assert.Equal(t, "dirdw", ls.Compile(nil).Hash)
}

func TestLightSet_DuplicateMember(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.amb, f.dir)
	assert.Equal(t, "ambientvambientvdirsdv", ls.Compile(nil).Hash)

	f.amb.Destroy()
	assert.Equal(t, []LightSource{f.dir}, ls.Lights())
	assert.Len(t, ls.subs, 1)
}

func TestLightSet_DestroyedLightRejected(t *testing.T) {
	f := newFixture()
	f.pt.Destroy()

	ls := NewLightSet(f.reg)
	ls.SetLights(f.pt, "bulb")

	assert.Empty(t, ls.Lights())
	require.Len(t, ls.Errors(), 2)
	assert.True(t, errors.Is(ls.Errors()[0], ErrCapabilityMismatch))
	assert.True(t, errors.Is(ls.Errors()[1], ErrUnresolvedReference))
}

func TestLightSet_ReentrantSetLightsFromHandler(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir, f.pt)

	once := false
	ls.Events().On(EventLights, func(any) {
		if once {
			return
		}
		once = true
		ls.SetLights(f.pt)
	})

	f.dir.Destroy()
	assert.Equal(t, []LightSource{f.pt}, ls.Lights())
	assert.Equal(t, 1, f.amb.Events().Len())
}

func TestLightSet_Destroy(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg)
	ls.SetLights(f.amb, f.dir)

	destroyed := 0
	ls.Events().On(EventDestroyed, func(any) { destroyed++ })
	ls.Destroy()
	ls.Destroy()

	assert.Equal(t, 1, destroyed)
	assert.True(t, ls.Destroyed())
	assert.Equal(t, 1, f.amb.Events().Len())
	assert.Equal(t, 1, f.dir.Events().Len())
	assert.Empty(t, ls.Lights())
}

func TestLightSet_NotALightItself(t *testing.T) {
	inner := NewLightSet(nil)
	ls := NewLightSet(nil)
	ls.SetLights(inner)

	assert.Empty(t, ls.Lights())
	require.Len(t, ls.Errors(), 1)
	assert.True(t, errors.Is(ls.Errors()[0], ErrCapabilityMismatch))
}

func TestLightSet_DestroyWithdrawsDescriptor(t *testing.T) {
	f := newFixture()
	ls := NewLightSet(f.reg, WithID("main"))
	ls.SetLights(f.amb, f.dir)
	ls.Compile(f.rc)

	_, ok := f.rc.Lights("main")
	require.True(t, ok)

	ls.Destroy()
	_, ok = f.rc.Lights("main")
	assert.False(t, ok)
	_, err := f.rc.Program("main")
	assert.Error(t, err)
}

func TestLightSet_ErrorHandlerMayReplaceLights(t *testing.T) {
	f := newFixture()
	var ls *LightSet
	calls := 0
	ls = NewLightSet(f.reg, WithErrorHandler(func(err error) {
		calls++
		if calls == 1 {
			ls.SetLights(f.pt)
		}
	}))
	dirty, snapshots := countEvents(ls)

	ls.SetLights("missing", f.amb, "ghost")

	assert.Equal(t, []LightSource{f.pt}, ls.Lights())
	assert.Equal(t, 2, calls)
	assert.Empty(t, ls.Errors())
	assert.Equal(t, 1, f.amb.Events().Len())
	assert.Equal(t, 3, f.pt.Events().Len())

	assert.Equal(t, 2, *dirty)
	require.Len(t, *snapshots, 2)
	assert.Equal(t, []LightSource{f.pt}, (*snapshots)[1])
}
