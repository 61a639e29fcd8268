package sim

import (
	"context"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"

	"sentinel-sim/internal/telemetry"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes telemetry and security events to GreptimeDB via
// the ingester client.
type GreptimeDBWriter struct {
	client     greptimeClient
	teleTable  string
	eventTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. The endpoint is
// host:port; a bare host defaults to the gRPC ingest port 4001.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host := endpoint
	port := 4001
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:     client,
		teleTable:  telemetry.TelemetryTableName,
		eventTable: telemetry.EventTableName,
	}, nil
}

// Write inserts a single node row.
func (w *GreptimeDBWriter) Write(row telemetry.NodeRow) error {
	return w.WriteBatch([]telemetry.NodeRow{row})
}

// WriteBatch inserts multiple node rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.NodeRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.teleTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("node_id", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("status", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("temperature", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("battery", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, int64(r.NodeID), r.Status, r.Temperature, r.Battery, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteEvent inserts a single security event row.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.EventRow) error {
	return w.WriteEvents([]telemetry.EventRow{row})
}

// WriteEvents inserts multiple security event rows.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("node_id", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("source_id", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("message", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.Kind, int64(r.NodeID), int64(r.SourceID), r.Message, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}
