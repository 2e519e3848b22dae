package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"auctionScope/internal/model"
)

// PostgresGateway reads event streams from the indexer database. The
// database is written by an external indexer; this side only queries.
type PostgresGateway struct {
	pool *pgxpool.Pool
}

func NewPostgresGateway(ctx context.Context, dsn string) (*PostgresGateway, error) {
	if dsn == "" {
		return nil, fmt.Errorf("index dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresGateway{pool: pool}, nil
}

func (g *PostgresGateway) Close() {
	if g.pool != nil {
		g.pool.Close()
	}
}

const transferColumns = `from_address, to_address, token_id, tx_hash, block_number, log_index, block_timestamp`

func (g *PostgresGateway) TransfersByReceiver(ctx context.Context, address string) ([]model.TransferEvent, error) {
	return g.queryTransfers(ctx, "transfers_by_receiver", `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE lower(to_address) = $1
		ORDER BY block_timestamp DESC
	`, strings.ToLower(address))
}

func (g *PostgresGateway) TransfersBySender(ctx context.Context, address string) ([]model.TransferEvent, error) {
	return g.queryTransfers(ctx, "transfers_by_sender", `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE lower(from_address) = $1
		ORDER BY block_timestamp DESC
	`, strings.ToLower(address))
}

func (g *PostgresGateway) queryTransfers(ctx context.Context, op, query, address string) ([]model.TransferEvent, error) {
	rows, err := g.pool.Query(ctx, query, address)
	if err != nil {
		return nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var out []model.TransferEvent
	for rows.Next() {
		var t model.TransferEvent
		var blockNumber, logIndex, timestamp int64
		if err := rows.Scan(&t.From, &t.To, &t.TokenID, &t.TxHash, &blockNumber, &logIndex, &timestamp); err != nil {
			return nil, model.NewTransportError(op, err)
		}
		t.BlockNumber = uint64(blockNumber)
		t.LogIndex = uint64(logIndex)
		t.BlockTimestamp = uint64(timestamp)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError(op, err)
	}
	return out, nil
}

func (g *PostgresGateway) BidsByAuction(ctx context.Context, auctionID uint64) ([]model.BidEvent, error) {
	const op = "bids_by_auction"
	rows, err := g.pool.Query(ctx, `
		SELECT auction_id, bidder, bid_amount, tx_hash, block_number, block_timestamp
		FROM bids
		WHERE auction_id = $1
		ORDER BY block_timestamp DESC
	`, int64(auctionID))
	if err != nil {
		return nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var out []model.BidEvent
	for rows.Next() {
		var b model.BidEvent
		var id, blockNumber, timestamp int64
		if err := rows.Scan(&id, &b.Bidder, &b.BidAmount, &b.TxHash, &blockNumber, &timestamp); err != nil {
			return nil, model.NewTransportError(op, err)
		}
		b.AuctionID = uint64(id)
		b.BlockNumber = uint64(blockNumber)
		b.BlockTimestamp = uint64(timestamp)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError(op, err)
	}
	return out, nil
}

func (g *PostgresGateway) AuctionLifecycle(ctx context.Context) ([]model.AuctionOpenedEvent, []model.AuctionClosedEvent, error) {
	const op = "auction_lifecycle"
	rows, err := g.pool.Query(ctx, `
		SELECT auction_id, end_time, block_number, block_timestamp
		FROM auction_opened
		ORDER BY block_timestamp DESC
	`)
	if err != nil {
		return nil, nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var opened []model.AuctionOpenedEvent
	for rows.Next() {
		var o model.AuctionOpenedEvent
		var id, blockNumber, timestamp int64
		var endTime string
		if err := rows.Scan(&id, &endTime, &blockNumber, &timestamp); err != nil {
			return nil, nil, model.NewTransportError(op, err)
		}
		o.AuctionID = uint64(id)
		o.BlockNumber = uint64(blockNumber)
		o.BlockTimestamp = uint64(timestamp)
		// The index stores end_time as raw event text; malformed values
		// fail here, never inside the lifecycle resolver.
		o.EndTime, err = parseTimestamp("auction_opened", "end_time", endTime)
		if err != nil {
			return nil, nil, err
		}
		opened = append(opened, o)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, model.NewTransportError(op, err)
	}

	closedRows, err := g.pool.Query(ctx, `
		SELECT auction_id, block_number, block_timestamp
		FROM auction_closed
		ORDER BY block_timestamp DESC
	`)
	if err != nil {
		return nil, nil, model.NewTransportError(op, err)
	}
	defer closedRows.Close()

	var closed []model.AuctionClosedEvent
	for closedRows.Next() {
		var c model.AuctionClosedEvent
		var id, blockNumber, timestamp int64
		if err := closedRows.Scan(&id, &blockNumber, &timestamp); err != nil {
			return nil, nil, model.NewTransportError(op, err)
		}
		c.AuctionID = uint64(id)
		c.BlockNumber = uint64(blockNumber)
		c.BlockTimestamp = uint64(timestamp)
		closed = append(closed, c)
	}
	if err := closedRows.Err(); err != nil {
		return nil, nil, model.NewTransportError(op, err)
	}

	return opened, closed, nil
}

func (g *PostgresGateway) RefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error) {
	return g.queryRefunds(ctx, "refunds_by_address", "refunds", address)
}

func (g *PostgresGateway) FailedRefundsByAddress(ctx context.Context, address string) ([]model.RefundEvent, error) {
	return g.queryRefunds(ctx, "failed_refunds_by_address", "failed_refunds", address)
}

func (g *PostgresGateway) queryRefunds(ctx context.Context, op, table, address string) ([]model.RefundEvent, error) {
	rows, err := g.pool.Query(ctx, `
		SELECT bidder, bid_amount, tx_hash, block_number, block_timestamp
		FROM `+table+`
		WHERE lower(bidder) = $1
		ORDER BY block_timestamp DESC
	`, strings.ToLower(address))
	if err != nil {
		return nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var out []model.RefundEvent
	for rows.Next() {
		var r model.RefundEvent
		var blockNumber, timestamp int64
		if err := rows.Scan(&r.Bidder, &r.BidAmount, &r.TxHash, &blockNumber, &timestamp); err != nil {
			return nil, model.NewTransportError(op, err)
		}
		r.BlockNumber = uint64(blockNumber)
		r.BlockTimestamp = uint64(timestamp)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError(op, err)
	}
	return out, nil
}

func (g *PostgresGateway) FailedMintsByAddress(ctx context.Context, address string) ([]model.FailedMintEvent, error) {
	const op = "failed_mints_by_address"
	rows, err := g.pool.Query(ctx, `
		SELECT auction_id, to_address, token_id, block_number, block_timestamp
		FROM failed_mints
		WHERE lower(to_address) = $1
		ORDER BY block_timestamp DESC
	`, strings.ToLower(address))
	if err != nil {
		return nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var out []model.FailedMintEvent
	for rows.Next() {
		var m model.FailedMintEvent
		var id, blockNumber, timestamp int64
		if err := rows.Scan(&id, &m.To, &m.TokenID, &blockNumber, &timestamp); err != nil {
			return nil, model.NewTransportError(op, err)
		}
		m.AuctionID = uint64(id)
		m.BlockNumber = uint64(blockNumber)
		m.BlockTimestamp = uint64(timestamp)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError(op, err)
	}
	return out, nil
}

func (g *PostgresGateway) FinalizedAuctionsByAddress(ctx context.Context, address string) ([]model.FinalizedAuctionEvent, error) {
	const op = "finalized_auctions_by_address"
	rows, err := g.pool.Query(ctx, `
		SELECT auction_id, nft_owner, token_id, block_number, block_timestamp
		FROM finalized_auctions
		WHERE lower(nft_owner) = $1
		ORDER BY block_timestamp DESC
	`, strings.ToLower(address))
	if err != nil {
		return nil, model.NewTransportError(op, err)
	}
	defer rows.Close()

	var out []model.FinalizedAuctionEvent
	for rows.Next() {
		var f model.FinalizedAuctionEvent
		var id, blockNumber, timestamp int64
		if err := rows.Scan(&id, &f.NftOwner, &f.TokenID, &blockNumber, &timestamp); err != nil {
			return nil, model.NewTransportError(op, err)
		}
		f.AuctionID = uint64(id)
		f.BlockNumber = uint64(blockNumber)
		f.BlockTimestamp = uint64(timestamp)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError(op, err)
	}
	return out, nil
}

func parseTimestamp(source, field, value string) (uint64, error) {
	ts, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, model.NewDecodeError(source, field, value, err)
	}
	return ts, nil
}
