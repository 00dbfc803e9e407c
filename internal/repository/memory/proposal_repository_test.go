package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/specification"
)

func TestUpdateVersionedBumpsVersion(t *testing.T) {
	repo := NewProposalRepository()
	ctx := context.Background()

	proposal := entity.NewProposal("s1")
	require.NoError(t, repo.Create(ctx, proposal))

	proposal.Section(constant.SectionInformation).LastRuleIndexAsked = 0
	require.NoError(t, repo.UpdateVersioned(ctx, proposal))
	assert.Equal(t, int64(2), proposal.Version)

	stored, err := repo.FindOne(ctx, specification.BySessionID{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, 0, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
}

func TestUpdateVersionedDetectsLostRace(t *testing.T) {
	repo := NewProposalRepository()
	ctx := context.Background()

	proposal := entity.NewProposal("s2")
	require.NoError(t, repo.Create(ctx, proposal))

	// Two readers load the same version.
	readerA, _ := repo.FindOne(ctx, specification.BySessionID{SessionID: "s2"})
	readerB, _ := repo.FindOne(ctx, specification.BySessionID{SessionID: "s2"})

	readerA.Section(constant.SectionInformation).LastRuleIndexAsked = 0
	require.NoError(t, repo.UpdateVersioned(ctx, readerA))

	readerB.Section(constant.SectionInformation).LastRuleIndexAsked = 1
	err := repo.UpdateVersioned(ctx, readerB)
	assert.ErrorIs(t, err, contract.ErrVersionConflict)

	// The winner's write is intact.
	stored, _ := repo.FindOne(ctx, specification.BySessionID{SessionID: "s2"})
	assert.Equal(t, 0, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
}

func TestFindOneReturnsDetachedCopy(t *testing.T) {
	repo := NewProposalRepository()
	ctx := context.Background()

	proposal := entity.NewProposal("s3")
	require.NoError(t, repo.Create(ctx, proposal))

	loaded, _ := repo.FindOne(ctx, specification.BySessionID{SessionID: "s3"})
	loaded.Section(constant.SectionInformation).LastRuleIndexAsked = 5

	stored, _ := repo.FindOne(ctx, specification.BySessionID{SessionID: "s3"})
	assert.Equal(t, -1, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
}

func TestCreateRejectsDuplicateSession(t *testing.T) {
	repo := NewProposalRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewProposal("s4")))

	err := repo.Create(ctx, entity.NewProposal("s4"))
	assert.ErrorIs(t, err, contract.ErrVersionConflict)

	stored, findErr := repo.FindOne(ctx, specification.BySessionID{SessionID: "s4"})
	require.NoError(t, findErr)
	assert.Equal(t, int64(1), stored.Version)
}
