package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vitalroots/referral_backend/models"
)

// memoryGraph builds a lookup over an in-memory referral forest.
func memoryGraph(patients ...*models.Patient) patientLookup {
	byID := make(map[primitive.ObjectID]*models.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}
	return func(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
		p, ok := byID[id]
		if !ok {
			return nil, ErrPatientNotFound
		}
		return p, nil
	}
}

func newPatient(name string, referredBy *models.Patient) *models.Patient {
	p := &models.Patient{ID: primitive.NewObjectID(), Name: name}
	if referredBy != nil {
		id := referredBy.ID
		p.ReferredBy = &id
	}
	return p
}

func TestWalkChainNoReferrer(t *testing.T) {
	root := newPatient("root", nil)

	chain, err := walkChain(context.Background(), memoryGraph(root), root, MaxReferralLevels)

	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestWalkChainThreeAncestors(t *testing.T) {
	a := newPatient("a", nil)
	b := newPatient("b", a)
	c := newPatient("c", b)
	d := newPatient("d", c)

	chain, err := walkChain(context.Background(), memoryGraph(a, b, c, d), d, MaxReferralLevels)

	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, c.ID, chain[0].Patient.ID)
	assert.Equal(t, 1, chain[0].Level)
	assert.Equal(t, b.ID, chain[1].Patient.ID)
	assert.Equal(t, 2, chain[1].Level)
	assert.Equal(t, a.ID, chain[2].Patient.ID)
	assert.Equal(t, 3, chain[2].Level)
}

func TestWalkChainCapsAtMaxLevels(t *testing.T) {
	// five generations deep, only three ancestors credited
	var patients []*models.Patient
	var prev *models.Patient
	for _, name := range []string{"g1", "g2", "g3", "g4", "g5", "leaf"} {
		p := newPatient(name, prev)
		patients = append(patients, p)
		prev = p
	}
	leaf := patients[len(patients)-1]

	chain, err := walkChain(context.Background(), memoryGraph(patients...), leaf, MaxReferralLevels)

	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "g5", chain[0].Patient.Name)
	assert.Equal(t, "g4", chain[1].Patient.Name)
	assert.Equal(t, "g3", chain[2].Patient.Name)
}

func TestWalkChainTerminatesOnCycle(t *testing.T) {
	// The invariant forbids cycles, but the walk must survive corrupted
	// data instead of looping.
	a := newPatient("a", nil)
	b := newPatient("b", a)
	aID, bID := a.ID, b.ID
	a.ReferredBy = &bID
	start := newPatient("start", nil)
	start.ReferredBy = &aID

	chain, err := walkChain(context.Background(), memoryGraph(a, b, start), start, MaxReferralLevels)

	require.NoError(t, err)
	// a -> b -> a stops when a would repeat
	require.Len(t, chain, 2)
	assert.Equal(t, a.ID, chain[0].Patient.ID)
	assert.Equal(t, b.ID, chain[1].Patient.ID)
}

func TestWalkChainSelfCycle(t *testing.T) {
	p := newPatient("self", nil)
	id := p.ID
	p.ReferredBy = &id

	chain, err := walkChain(context.Background(), memoryGraph(p), p, MaxReferralLevels)

	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestWalkChainStopsOnDanglingReferrer(t *testing.T) {
	ghost := primitive.NewObjectID()
	a := newPatient("a", nil)
	a.ReferredBy = &ghost
	b := newPatient("b", a)

	chain, err := walkChain(context.Background(), memoryGraph(a, b), b, MaxReferralLevels)

	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, a.ID, chain[0].Patient.ID)
}
