package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	ProjectKeyPrefix      = "project:%d"
	ProjectCommentsPrefix = "project:%d:comments"
)

const (
	UserTTL     = 5 * time.Minute
	ProjectTTL  = 10 * time.Minute
	CommentsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func ProjectCommentsKey(projectID uint) string {
	return fmt.Sprintf(ProjectCommentsPrefix, projectID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProject drops the project entry together with its comment list.
func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx,
		ProjectKey(projectID),
		ProjectCommentsKey(projectID),
	)
}
