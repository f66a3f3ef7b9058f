package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
)

func setupBoardTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Inquiry{}, &model.Reply{}, &model.CommunityPost{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// ==================== 咨询 ====================

func TestInquiryService_StatusTransitions(t *testing.T) {
	svc := NewInquiryService(repository.NewInquiryRepository(setupBoardTestDB(t)))
	ctx := context.Background()

	inq, err := svc.Create(ctx, "bob", &dto.InquiryCreateReq{Title: "배송", Content: "언제?"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusReceived, inq.Status)

	// 管理员回复不推进状态
	got, err := svc.AddReply(ctx, inq.ID, "admin", true, &dto.ReplyCreateReq{Content: "확인중"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusReceived, got.Status)

	// 首条非管理员回复：received -> in-progress
	got, err = svc.AddReply(ctx, inq.ID, "bob", false, &dto.ReplyCreateReq{Content: "빨리요"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusInProgress, got.Status)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, "admin", got.Replies[0].Author)

	got, err = svc.AddReply(ctx, inq.ID, "bob", false, &dto.ReplyCreateReq{Content: "또"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusInProgress, got.Status)

	// answered 只能由管理员设置
	_, err = svc.SetStatus(ctx, inq.ID, model.InquiryStatusAnswered, false)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err = svc.SetStatus(ctx, inq.ID, model.InquiryStatusAnswered, true)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusAnswered, got.Status)

	// 终态不会被回复改变
	got, err = svc.AddReply(ctx, inq.ID, "bob", false, &dto.ReplyCreateReq{Content: "감사"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusAnswered, got.Status)
}

func TestInquiryService_AnsweredIsTerminal(t *testing.T) {
	svc := NewInquiryService(repository.NewInquiryRepository(setupBoardTestDB(t)))
	ctx := context.Background()

	inq, err := svc.Create(ctx, "bob", &dto.InquiryCreateReq{Title: "환불", Content: "가능한가요?"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, inq.ID, model.InquiryStatusAnswered, true)
	require.NoError(t, err)

	for _, status := range []model.InquiryStatus{model.InquiryStatusReceived, model.InquiryStatusInProgress} {
		_, err = svc.SetStatus(ctx, inq.ID, status, true)
		assert.ErrorIs(t, err, ErrInquiryClosed, status)
		assert.ErrorIs(t, err, ErrInvalidState, status)
		assert.NotErrorIs(t, err, ErrInvalidStatus, status)
	}

	// 重复设置为终态是幂等的
	got, err := svc.SetStatus(ctx, inq.ID, model.InquiryStatusAnswered, true)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusAnswered, got.Status)

	got, err = svc.Get(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusAnswered, got.Status)
}

func TestInquiryService_Errors(t *testing.T) {
	svc := NewInquiryService(repository.NewInquiryRepository(setupBoardTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, "bob", &dto.InquiryCreateReq{Title: " ", Content: "x"})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrInquiryNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.AddReply(ctx, 42, "bob", false, &dto.ReplyCreateReq{Content: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.SetStatus(ctx, 42, "closed", true)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.SetStatus(ctx, 42, model.InquiryStatusAnswered, true)
	assert.ErrorIs(t, err, ErrInquiryNotFound)

	_, err = svc.List(ctx, &dto.InquiryListReq{Status: "closed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	page, err := svc.List(ctx, &dto.InquiryListReq{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.List)
	assert.Zero(t, page.Total)
}

// ==================== 社区 ====================

func TestCommunityService_Flow(t *testing.T) {
	svc := NewCommunityService(repository.NewPostRepository(setupBoardTestDB(t)))
	ctx := context.Background()

	post, err := svc.Create(ctx, "bob", &dto.PostCreateReq{Title: "안녕", Content: "첫 글", Tags: []string{" intro ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "free", post.Category)
	assert.Equal(t, []string{"intro"}, []string(post.Tags))

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	liked, err := svc.Like(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = svc.Like(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Create(ctx, "bob", &dto.PostCreateReq{Title: "", Content: "x"})
	assert.ErrorIs(t, err, ErrEmptyContent)

	page, err := svc.List(ctx, &dto.PostListReq{Category: "free", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
