//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/pkg/database"
	pkgerrors "skillswap/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("skillswap_test"),
		postgres.WithUsername("skillswap"),
		postgres.WithPassword("skillswap"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("启动测试容器失败: %v", err)
		os.Exit(1)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("获取连接串失败: %v", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	testDB, err = gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("无法连接测试数据库: %v", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err == nil {
		err = database.RunMigrations(sqlDB, zap.NewNop())
	}
	if err != nil {
		log.Printf("执行迁移失败: %v", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, repo *repository.Repository, skills ...string) *model.User {
	t.Helper()
	u := &model.User{
		Name:          "测试用户",
		Email:         fmt.Sprintf("u%d@example.com", time.Now().UnixNano()),
		PasswordHash:  "$2a$10$placeholder",
		IsPublic:      true,
		SkillsOffered: model.StringArray(skills),
		SkillsWanted:  model.StringArray{},
	}
	require.NoError(t, repo.User.Create(context.Background(), u))
	return u
}

func newPending(from, to *model.User) *model.SwapRequest {
	return &model.SwapRequest{
		FromUserID:     from.UserID,
		ToUserID:       to.UserID,
		RequestedSkill: "Guitar",
		OfferedSkill:   "JavaScript",
		Status:         model.SwapStatusPending,
		Message:        "hi",
		ProposedTime:   "weekends",
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Pending pair uniqueness
// ═══════════════════════════════════════════════════════════

func TestSwapRequest_PendingPairUnique(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	a := createUser(t, repo, "JavaScript")
	b := createUser(t, repo, "Guitar")

	first := newPending(a, b)
	require.NoError(t, repo.SwapRequest.Create(ctx, first))
	assert.NotEmpty(t, first.SwapRequestID)

	exists, err := repo.SwapRequest.ExistsPendingBetween(ctx, b.UserID, a.UserID)
	require.NoError(t, err)
	assert.True(t, exists)

	// 同向与反向均被唯一索引拦截
	err = repo.SwapRequest.Create(ctx, newPending(a, b))
	assert.True(t, errors.Is(err, repository.ErrDuplicatePending), "got %v", err)
	err = repo.SwapRequest.Create(ctx, newPending(b, a))
	assert.True(t, errors.Is(err, repository.ErrDuplicatePending), "got %v", err)

	// 原请求离开 pending 后可再次发起
	first.Status = model.SwapStatusCancelled
	require.NoError(t, repo.SwapRequest.Update(ctx, first))
	assert.NoError(t, repo.SwapRequest.Create(ctx, newPending(b, a)))
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic locking
// ═══════════════════════════════════════════════════════════

func TestSwapRequest_UpdateOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	a := createUser(t, repo, "JavaScript")
	b := createUser(t, repo, "Guitar")

	swap := newPending(a, b)
	require.NoError(t, repo.SwapRequest.Create(ctx, swap))

	stale, err := repo.SwapRequest.GetByID(ctx, swap.SwapRequestID)
	require.NoError(t, err)
	require.NotNil(t, stale.FromUser)
	assert.Equal(t, a.UserID, stale.FromUser.UserID)

	now := time.Now().UTC()
	swap.Status = model.SwapStatusAccepted
	swap.AcceptedAt = &now
	require.NoError(t, repo.SwapRequest.Update(ctx, swap))
	assert.Equal(t, 2, swap.Version)

	stale.Status = model.SwapStatusRejected
	assert.ErrorIs(t, repo.SwapRequest.Update(ctx, stale), pkgerrors.ErrOptimisticLock)

	got, err := repo.SwapRequest.GetByID(ctx, swap.SwapRequestID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, got.Status)
	require.NotNil(t, got.AcceptedAt)
}

func TestUser_UpdateReputationOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	u := createUser(t, repo, "Cooking")

	stale := *u
	u.SetReputation(model.Reputation{Rating: 4.5, SwapCount: 2, RatingSum: 9, RatingCount: 2})
	require.NoError(t, repo.User.UpdateReputation(ctx, u))

	stale.Rating = 1
	assert.ErrorIs(t, repo.User.UpdateReputation(ctx, &stale), pkgerrors.ErrOptimisticLock)

	got, err := repo.User.GetByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.Rating, 1e-9)
	assert.Equal(t, 2, got.SwapCount)
	assert.Equal(t, model.StringArray{"Cooking"}, got.SkillsOffered)
}

func TestUser_UpdateProfileKeepsReputation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	u := createUser(t, repo, "Cooking")
	u.SetReputation(model.Reputation{Rating: 3, SwapCount: 1, RatingSum: 3, RatingCount: 1})
	require.NoError(t, repo.User.UpdateReputation(ctx, u))

	u.Bio = "hello"
	u.Rating = 5 // 不应被资料更新写入
	u.SkillsOffered = model.StringArray{"Cooking", "Web Design"}
	require.NoError(t, repo.User.UpdateProfile(ctx, u))

	got, err := repo.User.GetByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.InDelta(t, 3.0, got.Rating, 1e-9)
	assert.Equal(t, model.StringArray{"Cooking", "Web Design"}, got.SkillsOffered)
}

func TestUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	u := createUser(t, repo)

	dup := &model.User{Name: "x", Email: u.Email, PasswordHash: "h"}
	assert.ErrorIs(t, repo.User.Create(ctx, dup), repository.ErrDuplicateEmail)
}

// ═══════════════════════════════════════════════════════════
// Test: Listing
// ═══════════════════════════════════════════════════════════

func TestSwapRequest_ListByParticipant(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	a := createUser(t, repo, "JavaScript")
	b := createUser(t, repo, "Guitar")
	c := createUser(t, repo, "Cooking")

	require.NoError(t, repo.SwapRequest.Create(ctx, newPending(a, b)))
	require.NoError(t, repo.SwapRequest.Create(ctx, newPending(c, a)))

	all, err := repo.SwapRequest.ListByParticipant(ctx, a.UserID, repository.SwapFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	incoming, err := repo.SwapRequest.ListByParticipant(ctx, a.UserID, repository.SwapFilter{Role: repository.SwapRoleIncoming})
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, c.UserID, incoming[0].FromUserID)

	accepted, err := repo.SwapRequest.ListByParticipant(ctx, a.UserID, repository.SwapFilter{Status: model.SwapStatusAccepted})
	require.NoError(t, err)
	assert.Empty(t, accepted)
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback
// ═══════════════════════════════════════════════════════════

func TestRunInTx_Rollback(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	a := createUser(t, repo, "JavaScript")
	b := createUser(t, repo, "Guitar")

	boom := errors.New("boom")
	var createdID string
	err := repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		s := newPending(a, b)
		if err := txRepo.SwapRequest.Create(ctx, s); err != nil {
			return err
		}
		createdID = s.SwapRequestID
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NotEmpty(t, createdID)

	_, err = repo.SwapRequest.GetByID(ctx, createdID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ═══════════════════════════════════════════════════════════
// Test: Malformed IDs
// ═══════════════════════════════════════════════════════════

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	_, err := repo.User.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.SwapRequest.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
