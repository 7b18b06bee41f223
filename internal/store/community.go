package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `
	p.id, p.user_id, u.username, p.content, p.image_url, p.recipe_id, p.created_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id),
	EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = ?)`

func (r *SQLiteRepository) CreatePost(ctx context.Context, p *Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO community_posts (id, user_id, content, image_url, recipe_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Content, p.ImageURL, nullString(p.RecipeID),
		p.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetPost(ctx context.Context, id, viewerID string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM community_posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = ?
	`, viewerID, id)

	p, err := scanPost(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteRepository) ListPosts(ctx context.Context, viewerID string, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM community_posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC LIMIT ?
	`, viewerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *SQLiteRepository) ListPostsByAuthor(ctx context.Context, authorID, viewerID string, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM community_posts p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC LIMIT ?
	`, viewerID, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListFollowingPosts returns the recent posts of authors the viewer follows.
func (r *SQLiteRepository) ListFollowingPosts(ctx context.Context, viewerID string, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM community_posts p
		JOIN users u ON u.id = p.user_id
		JOIN user_follows f ON f.followee_id = p.user_id AND f.follower_id = ?
		ORDER BY p.created_at DESC LIMIT ?
	`, viewerID, viewerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanPost(scan func(dest ...any) error) (*Post, error) {
	var p Post
	var recipeID sql.NullString
	var likedByMe int
	var createdAt string

	err := scan(&p.ID, &p.UserID, &p.Username, &p.Content, &p.ImageURL, &recipeID,
		&createdAt, &p.Likes, &p.Comments, &likedByMe)
	if err != nil {
		return nil, err
	}

	p.RecipeID = recipeID.String
	p.LikedByMe = likedByMe == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (r *SQLiteRepository) DeletePost(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM community_posts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) LikePost(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)
		ON CONFLICT(post_id, user_id) DO NOTHING
	`, postID, userID)
	return err
}

func (r *SQLiteRepository) UnlikePost(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
	return err
}

func (r *SQLiteRepository) CreateComment(ctx context.Context, c *Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM post_comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ? ORDER BY c.created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Content, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *SQLiteRepository) DeleteComment(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM post_comments WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) FollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_follows (follower_id, followee_id) VALUES (?, ?)
		ON CONFLICT(follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	return err
}

func (r *SQLiteRepository) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_follows WHERE follower_id = ? AND followee_id = ?", followerID, followeeID)
	return err
}
