package holder

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cardwallet/internal/audit"
	"cardwallet/internal/definition"
	"cardwallet/internal/definition/registry"
	"cardwallet/internal/exchange"
	"cardwallet/internal/holder/mocks"
	"cardwallet/internal/manifest"
	"cardwallet/internal/presentation"
	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/sentinel"
)

const walletID = "https://wallet.example.org/authorize"

type fixture struct {
	service   *Service
	manifests *mocks.MockManifestSource
	signer    *mocks.MockSigner
	replay    *mocks.MockReplayGuard
	auditor   *mocks.MockAuditPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := registry.New()
	require.NoError(t, registry.SeedWellKnownScopes(r))

	f := &fixture{
		manifests: mocks.NewMockManifestSource(ctrl),
		signer:    mocks.NewMockSigner(ctrl),
		replay:    mocks.NewMockReplayGuard(ctrl),
		auditor:   mocks.NewMockAuditPublisher(ctrl),
	}
	f.service = NewService(
		exchange.NewParser(r),
		f.manifests,
		presentation.NewAssembler(walletID),
		f.signer,
		f.replay,
		f.auditor,
		nil,
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	)
	return f
}

func insuranceQuery(t *testing.T, nonce string) string {
	t.Helper()
	req := exchange.AuthorizationRequest{
		Scope:        registry.ScopeInsurance,
		Nonce:        nonce,
		ClientID:     walletID,
		RedirectURI:  walletID,
		ResponseType: exchange.ResponseTypeVPToken,
		ClientMetadata: exchange.ClientMetadata{
			VPFormats: definition.Format{"jwt_vp": {Alg: []string{"ES256"}}},
		},
	}
	query, err := req.EncodeQuery()
	require.NoError(t, err)
	return query
}

func insuranceEntry(credential string) manifest.Entry {
	return manifest.Entry{
		Credential:  credential,
		FHIRVersion: "4.0.1",
		FHIRBundleContains: []manifest.BundleItem{
			{ResourceType: "Patient"},
			{ResourceType: "Coverage"},
		},
	}
}

func TestPresentAssemblesAndSignsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.replay.EXPECT().MarkUsed(gomock.Any(), "n-1").Return(nil)
	f.manifests.EXPECT().Snapshot(gomock.Any()).Return([]manifest.Entry{
		insuranceEntry("eyJ.first"),
		{Credential: "eyJ.dental", FHIRVersion: "3.0.2"},
		insuranceEntry("eyJ.second"),
	}, nil)
	f.signer.EXPECT().Sign(gomock.Any()).DoAndReturn(func(claims presentation.Claims) (string, error) {
		require.Equal(t, "n-1", claims.Nonce)
		require.Equal(t, []string{"eyJ.first", "eyJ.second"}, claims.VP.VerifiableCredential)
		require.Equal(t, []string{walletID}, []string(claims.Audience))
		return "signed.vp.token", nil
	})
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event audit.Event) error {
		require.Equal(t, audit.EventPresentationAssembled, event.Type)
		require.Equal(t, walletID, event.ClientID)
		require.Equal(t, 2, event.MatchedCount)
		return nil
	})

	result, err := f.service.Present(ctx, insuranceQuery(t, "n-1"))
	require.NoError(t, err)
	require.Equal(t, "signed.vp.token", result.VPToken)
	require.Equal(t, 2, result.Matched)
	require.False(t, result.Empty)
}

func TestPresentReportsEmptyMatchWithoutError(t *testing.T) {
	f := newFixture(t)

	f.replay.EXPECT().MarkUsed(gomock.Any(), gomock.Any()).Return(nil)
	f.manifests.EXPECT().Snapshot(gomock.Any()).Return([]manifest.Entry{
		{Credential: "eyJ.dental", FHIRVersion: "3.0.2"},
	}, nil)
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event audit.Event) error {
		require.Equal(t, audit.EventEmptyMatch, event.Type)
		return nil
	})

	result, err := f.service.Present(context.Background(), insuranceQuery(t, "n-2"))
	require.NoError(t, err)
	require.True(t, result.Empty)
	require.Empty(t, result.VPToken)
}

func TestPresentRejectsReplayedNonce(t *testing.T) {
	f := newFixture(t)

	f.replay.EXPECT().MarkUsed(gomock.Any(), "n-3").Return(sentinel.ErrAlreadyUsed)
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event audit.Event) error {
		require.Equal(t, audit.EventRequestRejected, event.Type)
		require.Equal(t, string(dErrors.CodeConflict), event.Reason)
		return nil
	})

	result, err := f.service.Present(context.Background(), insuranceQuery(t, "n-3"))
	require.Nil(t, result)
	require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestPresentRejectsClientBindingViolationBeforeAnythingRuns(t *testing.T) {
	f := newFixture(t)

	// No replay, snapshot, or signer expectations: the pipeline must stop
	// at the parser.
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event audit.Event) error {
		require.Equal(t, audit.EventRequestRejected, event.Type)
		require.Equal(t, string(dErrors.CodeClientBinding), event.Reason)
		return nil
	})

	req := exchange.AuthorizationRequest{
		Scope:        registry.ScopeInsurance,
		Nonce:        "n-4",
		ClientID:     walletID,
		RedirectURI:  "https://attacker.example.org/callback",
		ResponseType: exchange.ResponseTypeVPToken,
	}
	query, err := req.EncodeQuery()
	require.NoError(t, err)

	result, err := f.service.Present(context.Background(), query)
	require.Nil(t, result)
	require.True(t, dErrors.HasCode(err, dErrors.CodeClientBinding))
}

func TestPresentWrapsSignerFailure(t *testing.T) {
	f := newFixture(t)

	f.replay.EXPECT().MarkUsed(gomock.Any(), gomock.Any()).Return(nil)
	f.manifests.EXPECT().Snapshot(gomock.Any()).Return([]manifest.Entry{insuranceEntry("eyJ.one")}, nil)
	f.signer.EXPECT().Sign(gomock.Any()).Return("", dErrors.New(dErrors.CodeInternal, "key unavailable"))
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event audit.Event) error {
		require.Equal(t, audit.EventRequestRejected, event.Type)
		return nil
	})

	result, err := f.service.Present(context.Background(), insuranceQuery(t, "n-5"))
	require.Nil(t, result)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestPresentFailsWhenReplayGuardUnavailable(t *testing.T) {
	f := newFixture(t)

	f.replay.EXPECT().MarkUsed(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)
	f.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.service.Present(context.Background(), insuranceQuery(t, "n-6"))
	require.Nil(t, result)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
