package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/config"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/test"
	"github.com/anyschool/order-service/internal/usecase"
	"github.com/anyschool/order-service/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFacade() *MarketplaceFacade {
	auth := usecase.NewAuthUseCase(test.UserRepositoryStub{}, test.HasherStub{}, test.StrategyStub{})
	orders := usecase.NewOrderUseCase(test.OrderRepositoryStub{}, test.SchoolRepositoryStub{})
	schools := usecase.NewSchoolUseCase(test.SchoolRepositoryStub{})
	return NewMarketplaceFacade(auth, orders, schools)
}

func TestNewHTTPServerUsesConfiguredAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	srv := newHTTPServer(serverParams{
		Config: &config.Config{RunAddress: "127.0.0.1:9999"},
		Router: router,
	})
	if srv.Addr != "127.0.0.1:9999" {
		t.Fatalf("unexpected address %q", srv.Addr)
	}
	if srv.Handler == nil {
		t.Fatal("handler not wired")
	}
}

func TestFacadeDelegatesToUseCases(t *testing.T) {
	facade := newTestFacade()
	ctx := context.Background()

	token, err := facade.Register(ctx, "parent@example.org", "pass", model.RoleParent)
	if err != nil || token != "token" {
		t.Fatalf("register: token %q err %v", token, err)
	}

	actor, err := facade.ParseToken("token")
	if err != nil || actor.UserID != 1 || actor.Role != model.RoleParent {
		t.Fatalf("parse token: actor %+v err %v", actor, err)
	}

	order, err := facade.ApproveOrder(ctx, model.Actor{UserID: 99, Role: model.RoleSuperAdmin}, 5)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if order.Status != model.OrderStatusApproved {
		t.Fatalf("unexpected status %s", order.Status)
	}

	stats, err := facade.OrderStats(ctx)
	if err != nil || stats == nil {
		t.Fatalf("stats: %+v err %v", stats, err)
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &test.LifecycleRecorder{}
	shutdowner := &test.ShutdownerStub{Called: make(chan struct{}, 1)}
	cfg := &config.Config{
		RunAddress:      "127.0.0.1:0",
		ShutdownTimeout: time.Second,
	}
	refresher := worker.NewStatsRefresher(test.MarketplaceFacadeStub{}, time.Hour, discardLogger())

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: cfg.RunAddress, Handler: gin.New()},
		Refresher:  refresher,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook, got %d", len(recorder.Hooks))
	}
	hook := recorder.Hooks[0]

	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if err := hook.OnStop(context.Background()); err != nil {
		t.Fatalf("on stop: %v", err)
	}

	select {
	case <-shutdowner.Called:
		t.Fatal("clean shutdown must not trigger the shutdowner")
	default:
	}
}

func TestLifecycleSignalsShutdownOnListenFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &test.LifecycleRecorder{}
	shutdowner := &test.ShutdownerStub{Called: make(chan struct{}, 1)}
	cfg := &config.Config{
		RunAddress:      "127.0.0.1:-1",
		ShutdownTimeout: time.Second,
	}
	refresher := worker.NewStatsRefresher(test.MarketplaceFacadeStub{}, time.Hour, discardLogger())

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: cfg.RunAddress, Handler: gin.New()},
		Refresher:  refresher,
		Config:     cfg,
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start: %v", err)
	}
	defer func() { _ = hook.OnStop(context.Background()) }()

	select {
	case <-shutdowner.Called:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdowner not notified about listen failure")
	}
}
