package services

import (
	"personal-blog/access"
	"personal-blog/models"
)

func (suite *ServiceTestSuite) TestCreateComment() {
	admin := suite.admin()
	post := suite.newPost(admin, "One")
	other := suite.newPost(admin, "Two")
	member := suite.principal(suite.register("m@example.com", "pw"))

	_, err := suite.comments.Create(suite.ctx, access.Anonymous(), post.ID, models.CreateCommentRequest{Text: "hi"})
	suite.ErrorIs(err, models.ErrUnauthenticated)

	_, err = suite.comments.Create(suite.ctx, member, 404, models.CreateCommentRequest{Text: "hi"})
	suite.ErrorIs(err, models.ErrNotFound)

	root, err := suite.comments.Create(suite.ctx, member, post.ID, models.CreateCommentRequest{Text: "hi"})
	suite.Require().NoError(err)
	suite.Equal(member.UserID, root.AuthorID)

	_, err = suite.comments.Create(suite.ctx, member, other.ID, models.CreateCommentRequest{Text: "cross", ParentID: &root.ID})
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestDeleteComment_AuthorOrSuperAdmin() {
	admin := suite.admin()
	post := suite.newPost(admin, "One")
	author := suite.principal(suite.register("a@example.com", "pw"))
	stranger := suite.principal(suite.register("s@example.com", "pw"))

	first, err := suite.comments.Create(suite.ctx, author, post.ID, models.CreateCommentRequest{Text: "one"})
	suite.Require().NoError(err)
	second, err := suite.comments.Create(suite.ctx, author, post.ID, models.CreateCommentRequest{Text: "two"})
	suite.Require().NoError(err)
	reply, err := suite.comments.Create(suite.ctx, stranger, post.ID, models.CreateCommentRequest{Text: "re", ParentID: &first.ID})
	suite.Require().NoError(err)

	suite.ErrorIs(suite.comments.Delete(suite.ctx, stranger, first.ID), models.ErrForbidden)
	suite.ErrorIs(suite.comments.Delete(suite.ctx, access.Anonymous(), first.ID), models.ErrUnauthenticated)

	suite.Require().NoError(suite.comments.Delete(suite.ctx, author, first.ID))
	_, err = suite.store.Comments().GetByID(suite.ctx, reply.ID)
	suite.ErrorIs(err, models.ErrNotFound)

	suite.Require().NoError(suite.comments.Delete(suite.ctx, admin, second.ID))
	suite.ErrorIs(suite.comments.Delete(suite.ctx, admin, second.ID), models.ErrNotFound)
}
