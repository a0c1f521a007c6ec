package services

import (
	"strings"

	"personal-blog/access"
	"personal-blog/models"

	"golang.org/x/crypto/bcrypt"
)

func (suite *ServiceTestSuite) TestRegister_DefaultsToCommunityMember() {
	user := suite.register("a@example.com", "pw1")

	suite.Equal(models.RoleCommunityMember, user.Role)
	suite.NotEqual("pw1", user.Password)
}

func (suite *ServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.register("a@example.com", "pw1")

	_, err := suite.creds.Register(suite.ctx, "a@example.com", "other", "Other")
	suite.ErrorIs(err, models.ErrDuplicateEmail)

	users, err := suite.store.Users().GetAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(users, 1)
}

func (suite *ServiceTestSuite) TestRegister_EmailIsCaseSensitive() {
	suite.register("a@example.com", "pw1")

	_, err := suite.creds.Register(suite.ctx, "A@example.com", "pw1", "Upper")
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestAuthenticate() {
	suite.register("a@example.com", "pw1")

	user, err := suite.creds.Authenticate(suite.ctx, "a@example.com", "pw1")
	suite.Require().NoError(err)
	suite.Equal("a@example.com", user.Email)

	_, err = suite.creds.Authenticate(suite.ctx, "a@example.com", "wrong")
	suite.ErrorIs(err, models.ErrInvalidCredentials)

	_, err = suite.creds.Authenticate(suite.ctx, "nobody@example.com", "pw1")
	suite.ErrorIs(err, models.ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestHasher_SaltsEveryDigest() {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("same-password")
	suite.Require().NoError(err)
	second, err := hasher.Hash("same-password")
	suite.Require().NoError(err)
	suite.NotEqual(first, second)

	for _, digest := range []string{first, second} {
		ok, err := hasher.Verify("same-password", digest)
		suite.NoError(err)
		suite.True(ok)
	}

	ok, err := hasher.Verify("other", first)
	suite.NoError(err)
	suite.False(ok)
}

func (suite *ServiceTestSuite) TestHasher_RejectsPasswordsOverBcryptLimit() {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("é", 37))
	suite.ErrorIs(err, models.ErrPasswordTooLong)

	_, err = suite.creds.Register(suite.ctx, "a@example.com", strings.Repeat("é", 72), "Ann")
	suite.ErrorIs(err, models.ErrPasswordTooLong)
	_, err = suite.store.Users().GetByEmail(suite.ctx, "a@example.com")
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestSetPassword_ClearsTokenAndSessions() {
	user := suite.register("a@example.com", "pw1")
	token, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)
	session, err := suite.sessions.Create(suite.ctx, user.ID, ClientInfo{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.creds.SetPassword(suite.ctx, user.ID, "pw2"))

	suite.ErrorIs(suite.registry.Validate(suite.ctx, token), models.ErrInvalidToken)
	_, err = suite.sessions.Resolve(suite.ctx, session)
	suite.ErrorIs(err, models.ErrUnauthenticated)

	_, err = suite.creds.Authenticate(suite.ctx, "a@example.com", "pw2")
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestSetPassword_UnknownAccount() {
	suite.ErrorIs(suite.creds.SetPassword(suite.ctx, 42, "pw"), models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestSetRole_OnlySuperAdmin() {
	owner := suite.register("owner@example.com", "pw")
	x := suite.register("x@example.com", "pw")
	y := suite.register("y@example.com", "pw")

	err := suite.creds.SetRole(suite.ctx, suite.principal(x), y.ID, models.RoleBlogWriter)
	suite.ErrorIs(err, models.ErrForbidden)

	err = suite.creds.SetRole(suite.ctx, access.Anonymous(), y.ID, models.RoleBlogWriter)
	suite.ErrorIs(err, models.ErrForbidden)

	unchanged, err := suite.creds.Get(suite.ctx, y.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleCommunityMember, unchanged.Role)

	suite.Require().NoError(suite.creds.SetRole(suite.ctx, suite.principal(owner), y.ID, models.RoleBlogWriter))
	promoted, err := suite.creds.Get(suite.ctx, y.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleBlogWriter, promoted.Role)
}

func (suite *ServiceTestSuite) TestSetRole_InvalidRoleAndSelfDemotion() {
	owner := suite.principal(suite.register("owner@example.com", "pw"))

	err := suite.creds.SetRole(suite.ctx, owner, owner.UserID, models.UserRole("emperor"))
	suite.ErrorIs(err, models.ErrInvalidRole)

	suite.NoError(suite.creds.SetRole(suite.ctx, owner, owner.UserID, models.RoleBlogWriter))
	suite.NoError(suite.creds.SetRole(suite.ctx, owner, owner.UserID, models.RoleCommunityMember))

	err = suite.creds.SetRole(suite.ctx, owner, 99, models.RoleBlogWriter)
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestDelete_CascadesOwnedContent() {
	admin := suite.admin()
	member := suite.register("m@example.com", "pw")
	memberP := suite.principal(member)

	post := suite.newPost(admin, "Hello")
	comment, err := suite.comments.Create(suite.ctx, memberP, post.ID, models.CreateCommentRequest{Text: "hi"})
	suite.Require().NoError(err)
	reply, err := suite.comments.Create(suite.ctx, admin, post.ID, models.CreateCommentRequest{Text: "welcome", ParentID: &comment.ID})
	suite.Require().NoError(err)
	other, err := suite.comments.Create(suite.ctx, admin, post.ID, models.CreateCommentRequest{Text: "standalone"})
	suite.Require().NoError(err)

	_, err = suite.registry.Issue(suite.ctx, "m@example.com")
	suite.Require().NoError(err)
	session, err := suite.sessions.Create(suite.ctx, member.ID, ClientInfo{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.creds.Delete(suite.ctx, memberP, member.ID))

	_, err = suite.creds.Get(suite.ctx, member.ID)
	suite.ErrorIs(err, models.ErrNotFound)
	_, err = suite.store.Comments().GetByID(suite.ctx, comment.ID)
	suite.ErrorIs(err, models.ErrNotFound)
	_, err = suite.store.Comments().GetByID(suite.ctx, reply.ID)
	suite.ErrorIs(err, models.ErrNotFound)
	_, err = suite.store.Comments().GetByID(suite.ctx, other.ID)
	suite.NoError(err)
	_, err = suite.sessions.Resolve(suite.ctx, session)
	suite.ErrorIs(err, models.ErrUnauthenticated)
}

func (suite *ServiceTestSuite) TestDelete_Permissions() {
	owner := suite.principal(suite.register("owner@example.com", "pw"))
	x := suite.register("x@example.com", "pw")
	y := suite.register("y@example.com", "pw")

	suite.ErrorIs(suite.creds.Delete(suite.ctx, suite.principal(x), y.ID), models.ErrForbidden)
	suite.ErrorIs(suite.creds.Delete(suite.ctx, access.Anonymous(), y.ID), models.ErrForbidden)
	suite.ErrorIs(suite.creds.Delete(suite.ctx, owner, owner.UserID), models.ErrForbidden)

	suite.NoError(suite.creds.Delete(suite.ctx, owner, y.ID))
	suite.ErrorIs(suite.creds.Delete(suite.ctx, owner, y.ID), models.ErrNotFound)
}
