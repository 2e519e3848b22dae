package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"auctionScope/internal/model"
)

const (
	callAttempts  = 3
	callBaseDelay = 200 * time.Millisecond
	callMaxDelay  = 2 * time.Second
)

// Client is the authoritative contract state gateway. Reads go straight
// to the chain: slower and costlier than the event index, but correct at
// call time.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	auction   common.Address
}

// NewClient connects to the RPC endpoint and binds the auction contract
// address.
func NewClient(ctx context.Context, rpcURL string, auctionAddress string) (*Client, error) {
	if !common.IsHexAddress(auctionAddress) {
		return nil, fmt.Errorf("invalid auction contract address: %s", auctionAddress)
	}
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		auction:   common.HexToAddress(auctionAddress),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var n uint64
	err := callWithRetry(ctx, "block_number", callAttempts, callBaseDelay, callMaxDelay, func(ctx context.Context) error {
		var callErr error
		n, callErr = c.ethClient.BlockNumber(ctx)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CurrentAuction performs the single authoritative read: an eth_call of
// getCurrentAuction() against the latest block.
func (c *Client) CurrentAuction(ctx context.Context) (model.AuctionStruct, error) {
	auctionABI, err := auctionABIInstance()
	if err != nil {
		return model.AuctionStruct{}, fmt.Errorf("parse auction abi: %w", err)
	}

	input, err := auctionABI.Pack("getCurrentAuction")
	if err != nil {
		return model.AuctionStruct{}, fmt.Errorf("pack getCurrentAuction: %w", err)
	}

	msg := ethereum.CallMsg{To: &c.auction, Data: input}
	var output []byte
	err = callWithRetry(ctx, "get_current_auction", callAttempts, callBaseDelay, callMaxDelay, func(ctx context.Context) error {
		var callErr error
		output, callErr = c.ethClient.CallContract(ctx, msg, nil)
		return callErr
	})
	if err != nil {
		return model.AuctionStruct{}, err
	}

	values, err := auctionABI.Unpack("getCurrentAuction", output)
	if err != nil {
		return model.AuctionStruct{}, model.NewDecodeError("auction_struct", "output", "", err)
	}
	if len(values) != 1 {
		return model.AuctionStruct{}, model.NewDecodeError("auction_struct", "output", "", fmt.Errorf("expected one return value, got %d", len(values)))
	}

	return convertAuction(values[0])
}

// rawAuction mirrors the tuple layout returned by getCurrentAuction.
type rawAuction struct {
	AuctionId              *big.Int
	TokenId                *big.Int
	NftOwner               common.Address
	State                  uint8
	AuctionType            uint8
	StartPrice             *big.Int
	StartTime              *big.Int
	EndTime                *big.Int
	HigherBidder           common.Address
	HigherBid              *big.Int
	MinimumBidChangeAmount *big.Int
}

func convertAuction(value interface{}) (model.AuctionStruct, error) {
	converted := abi.ConvertType(value, new(rawAuction))
	raw, ok := converted.(*rawAuction)
	if !ok {
		return model.AuctionStruct{}, model.NewDecodeError("auction_struct", "tuple", fmt.Sprintf("%T", value), nil)
	}
	if raw.TokenId == nil || raw.StartPrice == nil || raw.HigherBid == nil || raw.MinimumBidChangeAmount == nil {
		return model.AuctionStruct{}, model.NewDecodeError("auction_struct", "tuple", fmt.Sprintf("%T", value), fmt.Errorf("missing tuple fields"))
	}

	auctionID, err := asUint64("auction_id", raw.AuctionId)
	if err != nil {
		return model.AuctionStruct{}, err
	}
	startTime, err := asUint64("start_time", raw.StartTime)
	if err != nil {
		return model.AuctionStruct{}, err
	}
	endTime, err := asUint64("end_time", raw.EndTime)
	if err != nil {
		return model.AuctionStruct{}, err
	}

	return model.AuctionStruct{
		AuctionID:              auctionID,
		TokenID:                raw.TokenId.String(),
		NftOwner:               raw.NftOwner.Hex(),
		State:                  model.AuctionState(raw.State),
		AuctionType:            model.AuctionType(raw.AuctionType),
		StartPrice:             raw.StartPrice.String(),
		StartTime:              startTime,
		EndTime:                endTime,
		HigherBidder:           raw.HigherBidder.Hex(),
		HigherBid:              raw.HigherBid.String(),
		MinimumBidChangeAmount: raw.MinimumBidChangeAmount.String(),
	}, nil
}

func asUint64(field string, value *big.Int) (uint64, error) {
	if value == nil {
		return 0, model.NewDecodeError("auction_struct", field, "", fmt.Errorf("missing value"))
	}
	if !value.IsUint64() {
		return 0, model.NewDecodeError("auction_struct", field, value.String(), fmt.Errorf("does not fit in uint64"))
	}
	return value.Uint64(), nil
}
