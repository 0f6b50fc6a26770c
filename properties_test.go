package rect2d

import (
	"math"
	"testing"

	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/contact"
	"github.com/hexfault/rect2d/vector2"
)

// createRotatedBox is createBox plus a body-frame rotation, needed for the
// rotated-overlap and rotation-invariance scenarios below.
func createRotatedBox(position vector2.Vector2, width, height, rotation float64, bodyType actor.BodyType) *actor.RigidBody {
	shape, err := actor.NewRectShape(width, height, 0)
	if err != nil {
		panic(err)
	}
	body := actor.NewRigidBody(actor.Transform{Position: position, Rotation: rotation}, shape, bodyType, 1.0)
	body.Shape.ComputeAABB(body.Transform)
	return body
}

const propertyTolerance = 1e-9

func assertUnitNormal(t *testing.T, n vector2.Vector2) {
	t.Helper()
	if length := n.Len(); math.Abs(length-1) > propertyTolerance {
		t.Errorf("normal %v has length %v, want 1±%v", n, length, propertyTolerance)
	}
}

func assertNormalOrientation(t *testing.T, c *contact.Contact) {
	t.Helper()
	d := c.Inc.Transform.Position.Sub(c.Ref.Transform.Position).Dot(c.Normal)
	if d <= -propertyTolerance {
		t.Errorf("(p_inc-p_ref)·n = %v, want > 0 (ref=%v inc=%v normal=%v)", d, c.Ref.Transform.Position, c.Inc.Transform.Position, c.Normal)
	}
}

// overlappingFixtures feeds the universal-property tests below with a
// handful of distinct collision shapes: partial overlap, full containment,
// and a rotated partial overlap -- every pair here is known (by construction)
// to actually collide.
func overlappingFixtures() map[string]func() (*actor.RigidBody, *actor.RigidBody) {
	return map[string]func() (*actor.RigidBody, *actor.RigidBody){
		"axis-aligned overlap": func() (*actor.RigidBody, *actor.RigidBody) {
			return createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic),
				createBox(vector2.New(0.5, 0), 1, 1, actor.BodyTypeDynamic)
		},
		"full containment": func() (*actor.RigidBody, *actor.RigidBody) {
			return createBox(vector2.New(0, 0), 10, 10, actor.BodyTypeDynamic),
				createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
		},
		"rotated overlap": func() (*actor.RigidBody, *actor.RigidBody) {
			return createBox(vector2.New(0, 0), 2, 2, actor.BodyTypeDynamic),
				createRotatedBox(vector2.New(1.5, 0), math.Sqrt2, math.Sqrt2, math.Pi/4, actor.BodyTypeDynamic)
		},
	}
}

// TestSymmetryOfDisjointness is spec.md §8's universal property: collide(A,B)
// and collide(B,A) must agree. This is the exact property that would have
// caught RectRectCollide returning early on the clip step's "apart" verdict
// without ever running the corner-containment step -- a body fully inside a
// much larger one was only detected when the larger body was passed first.
func TestSymmetryOfDisjointness(t *testing.T) {
	cases := map[string]func() (*actor.RigidBody, *actor.RigidBody){
		"separated": func() (*actor.RigidBody, *actor.RigidBody) {
			return createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic),
				createBox(vector2.New(10, 0), 1, 1, actor.BodyTypeDynamic)
		},
		"corner touch": func() (*actor.RigidBody, *actor.RigidBody) {
			return createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic),
				createBox(vector2.New(1, 1), 1, 1, actor.BodyTypeDynamic)
		},
	}
	for name, fixture := range overlappingFixtures() {
		cases[name] = fixture
	}

	for name, fixture := range cases {
		t.Run(name, func(t *testing.T) {
			a, b := fixture()
			var forward, backward []*contact.Contact
			ab := RectRectCollide(a, b, &forward)
			ba := RectRectCollide(b, a, &backward)
			if ab != ba {
				t.Errorf("collide(A,B)=%v but collide(B,A)=%v, want equal", ab, ba)
			}
		})
	}
}

func TestCollisionInvariants(t *testing.T) {
	for name, fixture := range overlappingFixtures() {
		t.Run(name, func(t *testing.T) {
			a, b := fixture()
			var contacts []*contact.Contact
			if !RectRectCollide(a, b, &contacts) {
				t.Fatal("expected these fixtures to collide")
			}
			if len(contacts) == 0 {
				t.Fatal("expected at least one contact")
			}
			for _, c := range contacts {
				assertUnitNormal(t, c.Normal)
				assertNormalOrientation(t, c)
				if c.Depth < 0 {
					t.Errorf("Depth = %v, want >= 0", c.Depth)
				}
				if c.KFactor <= 0 {
					t.Errorf("KFactor = %v, want > 0", c.KFactor)
				}
			}
		})
	}
}

// TestTranslationInvariance covers both the universal property and spec.md
// §8 scenario 6 (scenario 1 shifted by a fixed vector): BodyToBodyLocal only
// ever depends on the *difference* between the two bodies' positions, so
// shifting both by the same vector leaves every local-frame computation
// unchanged and only translates the final world-space contact positions.
func TestTranslationInvariance(t *testing.T) {
	shift := vector2.New(1000, 1000)

	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(0.5, 0), 1, 1, actor.BodyTypeDynamic)
	var base []*contact.Contact
	if !RectRectCollide(a, b, &base) {
		t.Fatal("expected base fixture to collide")
	}

	shiftedA := createBox(a.Transform.Position.Add(shift), 1, 1, actor.BodyTypeDynamic)
	shiftedB := createBox(b.Transform.Position.Add(shift), 1, 1, actor.BodyTypeDynamic)
	var shiftedContacts []*contact.Contact
	if !RectRectCollide(shiftedA, shiftedB, &shiftedContacts) {
		t.Fatal("expected shifted fixture to collide")
	}

	if len(base) != len(shiftedContacts) {
		t.Fatalf("shifted collision produced %d contacts, want %d", len(shiftedContacts), len(base))
	}
	for i := range base {
		want := base[i].Position.Add(shift)
		got := shiftedContacts[i].Position
		if !vector2.NearEqual(got, want, 1e-6) {
			t.Errorf("contact %d position = %v, want %v (base %v + shift)", i, got, want, base[i].Position)
		}
		if base[i].Normal != shiftedContacts[i].Normal {
			t.Errorf("contact %d normal = %v, want %v", i, shiftedContacts[i].Normal, base[i].Normal)
		}
		if math.Abs(base[i].Depth-shiftedContacts[i].Depth) > 1e-9 {
			t.Errorf("contact %d depth = %v, want %v", i, shiftedContacts[i].Depth, base[i].Depth)
		}
		if math.Abs(base[i].KFactor-shiftedContacts[i].KFactor) > 1e-9 {
			t.Errorf("contact %d k-factor = %v, want %v", i, shiftedContacts[i].KFactor, base[i].KFactor)
		}
	}
}

// TestRotationInvariance: rotating both bodies by the same angle about the
// origin rotates the resulting normal and contact positions by that angle
// and leaves depth and k-factor unchanged. Every quantity SelectReferenceFace
// computes lives in a body-local frame reached only through BodyToBodyLocal,
// which composes a body's own rotation with the other body's inverse
// rotation -- a common rotation of both bodies cancels out of that
// composition entirely.
func TestRotationInvariance(t *testing.T) {
	const theta = 0.7

	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(0.5, 0), 1, 1, actor.BodyTypeDynamic)
	var base []*contact.Contact
	if !RectRectCollide(a, b, &base) {
		t.Fatal("expected base fixture to collide")
	}

	rotatedA := createRotatedBox(vector2.Rotate(a.Transform.Position, theta), 1, 1, theta, actor.BodyTypeDynamic)
	rotatedB := createRotatedBox(vector2.Rotate(b.Transform.Position, theta), 1, 1, theta, actor.BodyTypeDynamic)
	var rotatedContacts []*contact.Contact
	if !RectRectCollide(rotatedA, rotatedB, &rotatedContacts) {
		t.Fatal("expected rotated fixture to collide")
	}

	if len(base) != len(rotatedContacts) {
		t.Fatalf("rotated collision produced %d contacts, want %d", len(rotatedContacts), len(base))
	}
	for i := range base {
		wantPos := vector2.Rotate(base[i].Position, theta)
		if !vector2.NearEqual(rotatedContacts[i].Position, wantPos, 1e-6) {
			t.Errorf("contact %d position = %v, want %v", i, rotatedContacts[i].Position, wantPos)
		}
		wantNormal := vector2.Rotate(base[i].Normal, theta)
		if !vector2.NearEqual(rotatedContacts[i].Normal, wantNormal, 1e-9) {
			t.Errorf("contact %d normal = %v, want %v", i, rotatedContacts[i].Normal, wantNormal)
		}
		if math.Abs(base[i].Depth-rotatedContacts[i].Depth) > 1e-9 {
			t.Errorf("contact %d depth = %v, want %v", i, rotatedContacts[i].Depth, base[i].Depth)
		}
		if math.Abs(base[i].KFactor-rotatedContacts[i].KFactor) > 1e-9 {
			t.Errorf("contact %d k-factor = %v, want %v", i, rotatedContacts[i].KFactor, base[i].KFactor)
		}
	}
}

func TestIdentityOnSeparation(t *testing.T) {
	directions := map[string]vector2.Vector2{
		"+x": vector2.New(1, 0),
		"-x": vector2.New(-1, 0),
		"+y": vector2.New(0, 1),
		"-y": vector2.New(0, -1),
	}

	for name, dir := range directions {
		t.Run(name, func(t *testing.T) {
			a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
			b := createBox(dir.Mul(50), 1, 1, actor.BodyTypeDynamic)

			var contacts []*contact.Contact
			if RectRectCollide(a, b, &contacts) {
				t.Errorf("expected no collision with bodyB displaced far along %s", name)
			}
			if len(contacts) != 0 {
				t.Errorf("expected no contacts, got %d", len(contacts))
			}
		})
	}
}

func TestAABBUpdateIdempotence(t *testing.T) {
	body := createBox(vector2.New(3, -2), 2, 4, actor.BodyTypeDynamic)

	UpdateAABB(body)
	first := body.Shape.GetAABB()
	UpdateAABB(body)
	second := body.Shape.GetAABB()

	if first != second {
		t.Errorf("UpdateAABB is not idempotent: first=%+v second=%+v", first, second)
	}
}

// TestScenario1AxisAlignedOverlap is spec.md §8 scenario 1. Traced by hand
// against the implementation: B's left edge clips onto A's box at
// y=±0.5, body A's own corners at x=0.5 also land inside B and get unioned
// in (duplicating two of the four points), but A still wins the reference
// tie over B (min penetration sum 1.0 on A's right face vs 2.0 on B's left
// face), and the two points sitting on the corners rather than A's chosen
// face survive the filter.
func TestScenario1AxisAlignedOverlap(t *testing.T) {
	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(0.5, 0), 1, 1, actor.BodyTypeDynamic)

	var contacts []*contact.Contact
	if !RectRectCollide(a, b, &contacts) {
		t.Fatal("expected axis-aligned overlap to collide")
	}
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}

	wantPositions := []vector2.Vector2{vector2.New(0, -0.5), vector2.New(0, 0.5)}
	for _, want := range wantPositions {
		found := false
		for _, c := range contacts {
			if vector2.NearEqual(c.Position, want, 1e-9) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a contact at %v, got positions %v, %v", want, contacts[0].Position, contacts[1].Position)
		}
	}

	for _, c := range contacts {
		if c.Normal != vector2.New(1, 0) {
			t.Errorf("Normal = %v, want (1,0)", c.Normal)
		}
		if math.Abs(c.Depth-1.0) > 1e-9 {
			t.Errorf("Depth = %v, want 1.0 (the SAT penetration sum over all candidate points, not a per-point geometric depth)", c.Depth)
		}
	}
}

// TestScenario2CornerTouchNoPenetration is spec.md §8 scenario 2. A and B
// share exactly one point, (0.5, 0.5); every candidate contact collapses
// onto that single point, which then sits exactly on the chosen reference
// face and gets filtered out entirely -- an empty post-filter manifold, so
// per spec.md §9's recommended resolution RectRectCollide reports false.
func TestScenario2CornerTouchNoPenetration(t *testing.T) {
	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(1, 1), 1, 1, actor.BodyTypeDynamic)

	var contacts []*contact.Contact
	if RectRectCollide(a, b, &contacts) {
		t.Errorf("expected a bare corner touch to report no collision, got %d contacts", len(contacts))
	}
}

// TestScenario3RotatedOverlap is spec.md §8 scenario 3. The exact contact
// count and positions depend on Liang-Barsky clipping a 45°-rotated square's
// edges, which isn't practical to hand-verify to the precision a hardcoded
// assertion would need; this checks the properties spec.md states explicitly
// (collision reported, 1-2 contacts, normal along A's +x̂, roughly half a
// unit of penetration) plus the universal invariants.
func TestScenario3RotatedOverlap(t *testing.T) {
	a := createBox(vector2.New(0, 0), 2, 2, actor.BodyTypeDynamic)
	b := createRotatedBox(vector2.New(1.5, 0), math.Sqrt2, math.Sqrt2, math.Pi/4, actor.BodyTypeDynamic)

	var contacts []*contact.Contact
	if !RectRectCollide(a, b, &contacts) {
		t.Fatal("expected the rotated square to penetrate A")
	}
	if len(contacts) < 1 || len(contacts) > 2 {
		t.Fatalf("got %d contacts, want 1 or 2", len(contacts))
	}

	for _, c := range contacts {
		assertUnitNormal(t, c.Normal)
		assertNormalOrientation(t, c)
		if math.Abs(c.Normal[0]-1) > 1e-6 || math.Abs(c.Normal[1]) > 1e-6 {
			t.Errorf("Normal = %v, want approximately (1,0)", c.Normal)
		}
		if c.Depth <= 0 || c.Depth > 2 {
			t.Errorf("Depth = %v, want a small positive penetration sum", c.Depth)
		}
	}
}

// TestScenario4FullContainment is spec.md §8 scenario 4. Hand-traced against
// the implementation: contrary to the scenario's narrative summary (which
// describes the reference face as "whichever of A's faces is closest"), the
// §4.3 penetration-sum heuristic makes the *smaller* body the reference here
// -- B's own corners are by construction close to B's own faces (sum 2.0),
// while they sit far from A's much larger faces (sum 20.0) -- and two of B's
// four corners land exactly on B's chosen face and are filtered out. This is
// the literal, faithfully-reproduced §4.3 algorithm, not a defect introduced
// here: it also now behaves symmetrically regardless of which body is passed
// first (see TestSymmetryOfDisjointness's "full containment" case).
func TestScenario4FullContainment(t *testing.T) {
	a := createBox(vector2.New(0, 0), 10, 10, actor.BodyTypeDynamic)
	b := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)

	var contacts []*contact.Contact
	if !RectRectCollide(a, b, &contacts) {
		t.Fatal("expected full containment to collide")
	}
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}

	wantPositions := []vector2.Vector2{vector2.New(0.5, -0.5), vector2.New(0.5, 0.5)}
	for _, want := range wantPositions {
		found := false
		for _, c := range contacts {
			if vector2.NearEqual(c.Position, want, 1e-9) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a contact at %v", want)
		}
	}

	for _, c := range contacts {
		if c.Ref != b {
			t.Errorf("expected the smaller body to be the reference, got ref=%+v", c.Ref.Transform.Position)
		}
		if math.Abs(c.Depth-2.0) > 1e-9 {
			t.Errorf("Depth = %v, want 2.0", c.Depth)
		}
	}
}

func TestScenario5Separated(t *testing.T) {
	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(10, 0), 1, 1, actor.BodyTypeDynamic)

	var contacts []*contact.Contact
	if RectRectCollide(a, b, &contacts) {
		t.Error("expected widely separated boxes not to collide")
	}
	if len(contacts) != 0 {
		t.Errorf("expected no contacts, got %d", len(contacts))
	}
}

// TestScenario6TranslationInvarianceOfScenario1 is spec.md §8 scenario 6:
// scenario 1, shifted, should reproduce the same normal/depth/k-factor with
// contacts shifted by the same vector. TestTranslationInvariance above
// verifies the same property generically; this pins it to scenario 1's
// exact numbers.
func TestScenario6TranslationInvarianceOfScenario1(t *testing.T) {
	shift := vector2.New(1000, 1000)

	a := createBox(vector2.New(0, 0), 1, 1, actor.BodyTypeDynamic)
	b := createBox(vector2.New(0.5, 0), 1, 1, actor.BodyTypeDynamic)
	var base []*contact.Contact
	if !RectRectCollide(a, b, &base) {
		t.Fatal("expected scenario 1 to collide")
	}

	shiftedA := createBox(vector2.New(0, 0).Add(shift), 1, 1, actor.BodyTypeDynamic)
	shiftedB := createBox(vector2.New(0.5, 0).Add(shift), 1, 1, actor.BodyTypeDynamic)
	var shifted []*contact.Contact
	if !RectRectCollide(shiftedA, shiftedB, &shifted) {
		t.Fatal("expected shifted scenario 1 to collide")
	}

	if len(shifted) != len(base) {
		t.Fatalf("shifted scenario produced %d contacts, want %d", len(shifted), len(base))
	}
	for i := range base {
		if !vector2.NearEqual(shifted[i].Position, base[i].Position.Add(shift), 1e-6) {
			t.Errorf("contact %d position = %v, want %v", i, shifted[i].Position, base[i].Position.Add(shift))
		}
		if shifted[i].Normal != base[i].Normal {
			t.Errorf("contact %d normal = %v, want %v", i, shifted[i].Normal, base[i].Normal)
		}
		if math.Abs(shifted[i].Depth-base[i].Depth) > 1e-9 {
			t.Errorf("contact %d depth = %v, want %v", i, shifted[i].Depth, base[i].Depth)
		}
	}
}
