package services

import (
	"fmt"
	"time"

	"personal-blog/access"
	"personal-blog/models"
)

func (suite *ServiceTestSuite) TestCreatePost_RequiresWriterAndSuperAdmin() {
	ownerUser := suite.register("owner@example.com", "pw")
	owner := suite.principal(ownerUser)
	writer := suite.register("w@example.com", "pw")
	suite.Require().NoError(suite.creds.SetRole(suite.ctx, owner, writer.ID, models.RoleBlogWriter))

	req := models.CreatePostRequest{Title: "First", Subtitle: "s", ImgURL: "https://x.test/a.png", Body: "b"}

	_, err := suite.posts.Create(suite.ctx, owner, req)
	suite.ErrorIs(err, models.ErrForbidden, "super-admin without the writer role")

	_, err = suite.posts.Create(suite.ctx, suite.principal(writer), req)
	suite.ErrorIs(err, models.ErrForbidden, "writer who is not the super-admin")

	_, err = suite.posts.Create(suite.ctx, access.Anonymous(), req)
	suite.ErrorIs(err, models.ErrForbidden)

	suite.Require().NoError(suite.creds.SetRole(suite.ctx, owner, ownerUser.ID, models.RoleBlogWriter))
	post, err := suite.posts.Create(suite.ctx, suite.principal(ownerUser), req)
	suite.Require().NoError(err)
	suite.Equal("first", post.Slug)
	suite.Equal(ownerUser.ID, post.AuthorID)
	suite.Equal(ownerUser.Email, post.Author.Email)
	suite.Equal(time.Now().Format(models.PostDateLayout), post.Date)
}

func (suite *ServiceTestSuite) TestCreatePost_DuplicateTitle() {
	admin := suite.admin()
	suite.newPost(admin, "Same Title")

	_, err := suite.posts.Create(suite.ctx, admin, models.CreatePostRequest{
		Title: "Same Title", Subtitle: "s", ImgURL: "https://x.test/a.png", Body: "b",
	})
	suite.ErrorIs(err, models.ErrDuplicateTitle)
}

func (suite *ServiceTestSuite) TestUpdatePost() {
	admin := suite.admin()
	post := suite.newPost(admin, "Draft")
	suite.newPost(admin, "Taken")

	updated, err := suite.posts.Update(suite.ctx, admin, post.ID, models.CreatePostRequest{
		Title: "Final Cut", Subtitle: "new", ImgURL: "https://x.test/b.png", Body: "changed",
	})
	suite.Require().NoError(err)
	suite.Equal("final-cut", updated.Slug)
	suite.Equal("changed", updated.Body)
	suite.Equal(post.Date, updated.Date)

	_, err = suite.posts.Update(suite.ctx, admin, post.ID, models.CreatePostRequest{
		Title: "Taken", Subtitle: "s", ImgURL: "https://x.test/a.png", Body: "b",
	})
	suite.ErrorIs(err, models.ErrDuplicateTitle)

	_, err = suite.posts.Update(suite.ctx, admin, 999, models.CreatePostRequest{Title: "x"})
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestGetPost_NestsComments() {
	admin := suite.admin()
	member := suite.principal(suite.register("m@example.com", "pw"))
	post := suite.newPost(admin, "Threads")

	root, err := suite.comments.Create(suite.ctx, member, post.ID, models.CreateCommentRequest{Text: "root"})
	suite.Require().NoError(err)
	_, err = suite.comments.Create(suite.ctx, admin, post.ID, models.CreateCommentRequest{Text: "reply", ParentID: &root.ID})
	suite.Require().NoError(err)
	_, err = suite.comments.Create(suite.ctx, member, post.ID, models.CreateCommentRequest{Text: "second root"})
	suite.Require().NoError(err)

	got, err := suite.posts.Get(suite.ctx, post.ID)
	suite.Require().NoError(err)
	suite.Require().Len(got.Comments, 2)
	suite.Equal("root", got.Comments[0].Text)
	suite.Require().Len(got.Comments[0].Replies, 1)
	suite.Equal("reply", got.Comments[0].Replies[0].Text)
	suite.Equal("second root", got.Comments[1].Text)
	suite.Require().NotNil(got.Comments[0].Author)
	suite.Equal("m@example.com", got.Comments[0].Author.Email)
}

func (suite *ServiceTestSuite) TestDeletePost_RemovesComments() {
	admin := suite.admin()
	post := suite.newPost(admin, "Doomed")
	comment, err := suite.comments.Create(suite.ctx, admin, post.ID, models.CreateCommentRequest{Text: "bye"})
	suite.Require().NoError(err)

	member := suite.principal(suite.register("m@example.com", "pw"))
	suite.ErrorIs(suite.posts.Delete(suite.ctx, member, post.ID), models.ErrForbidden)

	suite.Require().NoError(suite.posts.Delete(suite.ctx, admin, post.ID))
	_, err = suite.posts.Get(suite.ctx, post.ID)
	suite.ErrorIs(err, models.ErrNotFound)
	_, err = suite.store.Comments().GetByID(suite.ctx, comment.ID)
	suite.ErrorIs(err, models.ErrNotFound)

	suite.ErrorIs(suite.posts.Delete(suite.ctx, admin, post.ID), models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestListPosts_Paging() {
	admin := suite.admin()
	for i := 0; i < 5; i++ {
		suite.newPost(admin, fmt.Sprintf("Post %d", i))
	}

	posts, total, paging, err := suite.posts.List(suite.ctx, models.PostListParams{Page: 2, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)
	suite.Equal(2, paging.Page)
	suite.Len(posts, 2)

	posts, _, paging, err = suite.posts.List(suite.ctx, models.PostListParams{Limit: 1000})
	suite.Require().NoError(err)
	suite.Len(posts, 5)
	suite.Equal(1, paging.Page)
	suite.Equal(maxPageSize, paging.Limit)
}

func (suite *ServiceTestSuite) TestMakeSlug_FallsBackForSymbols() {
	suite.Equal("hello-world", makeSlug("Hello, World!"))
	suite.NotEmpty(makeSlug("!!!"))
}

func (suite *ServiceTestSuite) TestBuildCommentTree_PromotesOrphans() {
	missing := uint(77)
	one := uint(1)
	tree := buildCommentTree([]models.Comment{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b", ParentID: &one},
		{ID: 3, Text: "c", ParentID: &missing},
	})

	suite.Require().Len(tree, 2)
	suite.Len(tree[0].Replies, 1)
	suite.Equal(uint(3), tree[1].ID)
}
