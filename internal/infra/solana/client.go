package solana

import (
	"context"
	"errors"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/ports/adapter"
	"imagegen-solana-billing/internal/infra/metrics"
)

// Ensure compile-time conformance
var _ adapter.ChainClient = (*Client)(nil)

// Client is a read-only wrapper over a Solana JSON-RPC endpoint. It does not
// retry; the verification engine owns the poll cadence.
type Client struct {
	rpc *rpc.Client
}

// EndpointFor returns the public RPC URL for a cluster when none is
// configured explicitly.
func EndpointFor(cluster string) string {
	switch cluster {
	case "devnet":
		return rpc.DevNet_RPC
	case "testnet":
		return rpc.TestNet_RPC
	default:
		return rpc.MainNetBeta_RPC
	}
}

func NewClient(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (*adapter.SignatureStatus, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}

	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		metrics.IncChainRPC("getSignatureStatuses", "error")
		return nil, domain.ErrChainUnavailable
	}
	metrics.IncChainRPC("getSignatureStatuses", "ok")

	if len(out.Value) == 0 || out.Value[0] == nil {
		// Cluster has not seen the signature yet.
		return nil, nil
	}
	st := out.Value[0]
	confirmed := st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
		st.ConfirmationStatus == rpc.ConfirmationStatusFinalized
	return &adapter.SignatureStatus{
		Confirmed: confirmed,
		Failed:    st.Err != nil,
	}, nil
}

func (c *Client) GetTransaction(ctx context.Context, signature string, commitment adapter.Commitment) (*adapter.TransactionRecord, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}

	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     commitmentOf(commitment),
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			// Not available at this commitment level yet.
			metrics.IncChainRPC("getTransaction", "not_found")
			return nil, nil
		}
		metrics.IncChainRPC("getTransaction", "error")
		return nil, domain.ErrChainUnavailable
	}
	metrics.IncChainRPC("getTransaction", "ok")
	if out == nil || out.Meta == nil {
		return nil, nil
	}

	decoded, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, domain.ErrChainUnavailable
	}

	record := &adapter.TransactionRecord{
		AccountKeys:  make([]string, 0, len(decoded.Message.AccountKeys)),
		PreBalances:  out.Meta.PreBalances,
		PostBalances: out.Meta.PostBalances,
		Failed:       out.Meta.Err != nil,
		Slot:         out.Slot,
	}
	for _, key := range decoded.Message.AccountKeys {
		record.AccountKeys = append(record.AccountKeys, key.String())
	}
	if out.BlockTime != nil {
		t := out.BlockTime.Time()
		record.BlockTime = &t
	}
	return record, nil
}

func commitmentOf(c adapter.Commitment) rpc.CommitmentType {
	if c == adapter.CommitmentFinalized {
		return rpc.CommitmentFinalized
	}
	return rpc.CommitmentConfirmed
}
