package services

import (
	"time"

	"personal-blog/access"
	"personal-blog/models"

	"github.com/golang-jwt/jwt/v4"
)

func (suite *ServiceTestSuite) TestRegister_OpensSessionAndQueuesWelcome() {
	res, err := suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw1", Name: "Ann",
	}, ClientInfo{IP: "127.0.0.1", UserAgent: "test"})
	suite.Require().NoError(err)
	suite.NotEmpty(res.Token)

	p, err := suite.accounts.ResolveSession(suite.ctx, res.Token)
	suite.Require().NoError(err)
	suite.Equal(res.User.ID, p.UserID)
	suite.Equal(models.RoleCommunityMember, p.Role)

	msg, ok := suite.mails.last()
	suite.Require().True(ok)
	suite.Equal("a@example.com", msg.To)
	suite.Contains(msg.Subject, "Welcome")
}

func (suite *ServiceTestSuite) TestRegister_DuplicateLeavesAnonymous() {
	suite.register("a@example.com", "pw1")

	_, err := suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw2", Name: "Again",
	}, ClientInfo{})
	suite.ErrorIs(err, models.ErrDuplicateEmail)
}

func (suite *ServiceTestSuite) TestRegister_SessionFailureLeavesNoAccount() {
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.Session{}))

	_, err := suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw1", Name: "Ann",
	}, ClientInfo{})
	suite.Require().Error(err)

	_, err = suite.store.Users().GetByEmail(suite.ctx, "a@example.com")
	suite.ErrorIs(err, models.ErrNotFound)
	_, queued := suite.mails.last()
	suite.False(queued)

	suite.Require().NoError(suite.db.AutoMigrate(&models.Session{}))
	_, err = suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw1", Name: "Ann",
	}, ClientInfo{})
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestResetScenario() {
	_, err := suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw1", Name: "Ann",
	}, ClientInfo{})
	suite.Require().NoError(err)

	login, err := suite.accounts.Login(suite.ctx, models.LoginRequest{Email: "a@example.com", Password: "pw1"}, ClientInfo{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.accounts.RequestReset(suite.ctx, "a@example.com"))
	msg, ok := suite.mails.last()
	suite.Require().True(ok)
	suite.Equal("a@example.com", msg.To)
	suite.Contains(msg.Body, testBaseURL+"/confirm_reset/")
	token := resetTokenFrom(msg)
	suite.Require().NotEmpty(token)

	suite.NoError(suite.accounts.ValidateReset(suite.ctx, token))
	suite.Require().NoError(suite.accounts.ConfirmReset(suite.ctx, token, "pw2"))

	_, err = suite.accounts.Login(suite.ctx, models.LoginRequest{Email: "a@example.com", Password: "pw1"}, ClientInfo{})
	suite.ErrorIs(err, models.ErrInvalidCredentials)
	_, err = suite.accounts.Login(suite.ctx, models.LoginRequest{Email: "a@example.com", Password: "pw2"}, ClientInfo{})
	suite.NoError(err)

	suite.ErrorIs(suite.accounts.ConfirmReset(suite.ctx, token, "pw3"), models.ErrInvalidToken)

	// the session opened before the reset is gone
	_, err = suite.accounts.ResolveSession(suite.ctx, login.Token)
	suite.ErrorIs(err, models.ErrUnauthenticated)
}

func (suite *ServiceTestSuite) TestBackToBackResetRequests() {
	suite.register("a@example.com", "pw1")

	suite.Require().NoError(suite.accounts.RequestReset(suite.ctx, "a@example.com"))
	first, _ := suite.mails.last()
	suite.Require().NoError(suite.accounts.RequestReset(suite.ctx, "a@example.com"))
	second, _ := suite.mails.last()

	suite.ErrorIs(suite.accounts.ConfirmReset(suite.ctx, resetTokenFrom(first), "pw2"), models.ErrInvalidToken)
	suite.NoError(suite.accounts.ConfirmReset(suite.ctx, resetTokenFrom(second), "pw2"))
}

func (suite *ServiceTestSuite) TestRequestReset_UnknownEmailIsUniform() {
	suite.NoError(suite.accounts.RequestReset(suite.ctx, "ghost@example.com"))

	_, ok := suite.mails.last()
	suite.False(ok)
}

func (suite *ServiceTestSuite) TestLogout_RevokesSession() {
	res, err := suite.accounts.Register(suite.ctx, models.RegisterRequest{
		Email: "a@example.com", Password: "pw1", Name: "Ann",
	}, ClientInfo{})
	suite.Require().NoError(err)

	p, err := suite.accounts.ResolveSession(suite.ctx, res.Token)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.accounts.Logout(suite.ctx, p))

	_, err = suite.accounts.ResolveSession(suite.ctx, res.Token)
	suite.ErrorIs(err, models.ErrUnauthenticated)

	suite.NoError(suite.accounts.Logout(suite.ctx, access.Anonymous()))
}

func (suite *ServiceTestSuite) TestResolveSession_RejectsForeignTokens() {
	user := suite.register("a@example.com", "pw1")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "00000000-0000-0000-0000-000000000000",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongKey, err := forged.SignedString([]byte("other-secret"))
	suite.Require().NoError(err)
	rightKeyNoSession, err := forged.SignedString([]byte("test-secret"))
	suite.Require().NoError(err)

	for _, token := range []string{"", "garbage", wrongKey, rightKeyNoSession} {
		p, err := suite.accounts.ResolveSession(suite.ctx, token)
		suite.ErrorIs(err, models.ErrUnauthenticated)
		suite.True(p.IsAnonymous())
	}
}

func (suite *ServiceTestSuite) TestResolveSession_ExpiredSession() {
	user := suite.register("a@example.com", "pw1")
	token, err := suite.sessions.Create(suite.ctx, user.ID, ClientInfo{})
	suite.Require().NoError(err)

	suite.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = suite.sessions.Resolve(suite.ctx, token)
	suite.ErrorIs(err, models.ErrUnauthenticated)

	purged, err := suite.sessions.PurgeExpired(suite.ctx)
	suite.NoError(err)
	suite.Equal(int64(1), purged)
}

func (suite *ServiceTestSuite) TestRoleChangeAppliesOnNextRequest() {
	owner := suite.principal(suite.register("owner@example.com", "pw"))
	res, err := suite.accounts.Login(suite.ctx, models.LoginRequest{Email: "owner@example.com", Password: "pw"}, ClientInfo{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.accounts.SetRole(suite.ctx, owner, owner.UserID, models.RoleBlogWriter))

	p, err := suite.accounts.ResolveSession(suite.ctx, res.Token)
	suite.Require().NoError(err)
	suite.Equal(models.RoleBlogWriter, p.Role)
}

func (suite *ServiceTestSuite) TestPromoteByNonAdminIsForbidden() {
	suite.register("owner@example.com", "pw")
	x := suite.principal(suite.register("x@example.com", "pw"))
	y := suite.register("y@example.com", "pw")

	suite.ErrorIs(suite.accounts.SetRole(suite.ctx, x, y.ID, models.RoleBlogWriter), models.ErrForbidden)

	got, err := suite.accounts.Profile(suite.ctx, suite.principal(y))
	suite.Require().NoError(err)
	suite.Equal(models.RoleCommunityMember, got.Role)
}

func (suite *ServiceTestSuite) TestDeleteAccount() {
	suite.register("owner@example.com", "pw")
	user := suite.register("a@example.com", "pw1")
	p := suite.principal(user)

	err := suite.accounts.DeleteAccount(suite.ctx, access.Anonymous(), models.DeleteAccountRequest{
		Password: "pw1", Confirmation: models.DeleteAccountPhrase,
	})
	suite.ErrorIs(err, models.ErrForbidden)

	err = suite.accounts.DeleteAccount(suite.ctx, p, models.DeleteAccountRequest{
		Password: "pw1", Confirmation: "yes please",
	})
	suite.ErrorIs(err, models.ErrConfirmation)

	err = suite.accounts.DeleteAccount(suite.ctx, p, models.DeleteAccountRequest{
		Password: "wrong", Confirmation: models.DeleteAccountPhrase,
	})
	suite.ErrorIs(err, models.ErrInvalidCredentials)

	err = suite.accounts.DeleteAccount(suite.ctx, p, models.DeleteAccountRequest{
		Password: "pw1", Confirmation: " Delete My Account ",
	})
	suite.Require().NoError(err)

	_, err = suite.accounts.Profile(suite.ctx, p)
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestRemoveAccount_AdminOnly() {
	owner := suite.principal(suite.register("owner@example.com", "pw"))
	x := suite.principal(suite.register("x@example.com", "pw"))
	y := suite.register("y@example.com", "pw")

	suite.ErrorIs(suite.accounts.RemoveAccount(suite.ctx, x, y.ID), models.ErrForbidden)
	suite.NoError(suite.accounts.RemoveAccount(suite.ctx, owner, y.ID))

	users, err := suite.accounts.ListAccounts(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Len(users, 2)

	_, err = suite.accounts.ListAccounts(suite.ctx, x)
	suite.ErrorIs(err, models.ErrForbidden)
}
