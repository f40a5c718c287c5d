package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/archive"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

func TestWriter_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	w := archive.NewWriter(st)
	ctx := context.Background()
	effective := domain.MustParseDate("2025-01-15")

	st.EXPECT().
		CreateArchivedTransactions(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rows []schema.ArchivedAL3Transaction) (int, error) {
			require.Len(t, rows, 2)
			assert.Equal(t, "tenant-1", rows[0].TenantID)
			assert.Equal(t, "batch-9", rows[0].BatchID)
			assert.Equal(t, "END", rows[0].TransactionType)
			assert.Equal(t, "PA100", rows[0].PolicyNumber)
			require.NotNil(t, rows[0].EffectiveDate)
			assert.Equal(t, schema.ArchiveDispositionArchived, rows[0].Disposition)
			assert.JSONEq(t, `{"endorsement":"add driver"}`, string(rows[0].Payload))

			// Missing raw payload falls back to the marshalled transaction
			var tx al3.Transaction
			require.NoError(t, json.Unmarshal(rows[1].Payload, &tx))
			assert.Equal(t, 2, tx.Sequence)
			return 2, nil
		})

	res, err := w.Archive(ctx, "tenant-1", "batch-9", []al3.Transaction{
		{Sequence: 1, Type: "end", PolicyNumber: "pa-100", EffectiveDate: &effective, Raw: json.RawMessage(`{"endorsement":"add driver"}`)},
		{Sequence: 2, Type: "NBS"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Archived)
}

func TestWriter_Archive_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := archive.NewWriter(mocks.NewMockStore(ctrl))
	res, err := w.Archive(context.Background(), "tenant-1", "batch-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Archived)
}

func TestWriter_Archive_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	w := archive.NewWriter(st)
	ctx := context.Background()

	_, err := w.Archive(ctx, "", "batch-1", []al3.Transaction{{Sequence: 1, Type: "NBS"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = w.Archive(ctx, "tenant-1", "batch-1", []al3.Transaction{{Sequence: 1, Type: "NBS", Raw: json.RawMessage(`{bad`)}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	st.EXPECT().CreateArchivedTransactions(ctx, gomock.Any()).Return(0, errors.New("db down"))
	_, err = w.Archive(ctx, "tenant-1", "batch-1", []al3.Transaction{{Sequence: 1, Type: "NBS"}})
	assert.ErrorContains(t, err, "db down")
}

func TestWriter_Quarantine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	w := archive.NewWriter(st)
	ctx := context.Background()

	st.EXPECT().
		CreateArchivedTransactions(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rows []schema.ArchivedAL3Transaction) (int, error) {
			require.Len(t, rows, 1)
			assert.Equal(t, schema.ArchiveDispositionQuarantined, rows[0].Disposition)
			assert.Equal(t, "missing premium", rows[0].Reason)
			assert.Equal(t, "RWL", rows[0].TransactionType)
			assert.Equal(t, "HO9", rows[0].PolicyNumber)
			return 1, nil
		})

	res, err := w.Quarantine(ctx, "tenant-1", "batch-2", []al3.Quarantined{
		{
			Transaction: al3.Transaction{Sequence: 4, Type: "RWL", Snapshot: &domain.PolicySnapshot{PolicyNumber: "ho 9"}},
			Reason:      "missing premium",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Archived)
}
