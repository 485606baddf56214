package envserver

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestClient(t *testing.T) *EnvClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterEnvService(srv, newTestManager(DefaultManagerConfig()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewEnvClient(conn)
}

func TestGRPCLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	seed := int64(12)

	created, err := client.Create(ctx, CreateRequest{Seed: &seed, ActionSpace: "multibinary"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ActionShape != 4 || created.Info.Seed != 12 {
		t.Errorf("unexpected create response %+v", created)
	}

	tr, err := client.Step(ctx, created.ID, []float64{0, 1, 1, 0})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if tr.Info.Steps != 1 || len(tr.Observation) == 0 {
		t.Errorf("unexpected transition %+v", tr)
	}

	_, err = client.Step(ctx, created.ID, []float64{2})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("invalid action code = %v, want InvalidArgument", status.Code(err))
	}

	reset, err := client.Reset(ctx, created.ID, ResetRequest{})
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if reset.Info.Episode != 2 || reset.Info.Seed != 13 {
		t.Errorf("reset info = %+v", reset.Info)
	}

	if err := client.Close(ctx, created.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := client.Step(ctx, created.ID, []float64{0, 0, 0, 0}); status.Code(err) != codes.NotFound {
		t.Errorf("step after close code = %v, want NotFound", status.Code(err))
	}
}
