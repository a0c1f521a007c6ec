package services

import (
	"time"

	"personal-blog/models"
)

func (suite *ServiceTestSuite) TestIssue_UnknownEmail() {
	_, err := suite.registry.Issue(suite.ctx, "ghost@example.com")
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ServiceTestSuite) TestIssue_TokenIsHighEntropyAndStoredHashed() {
	user := suite.register("a@example.com", "pw1")

	token, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)
	suite.Len(token, 43)

	record, err := suite.store.ResetTokens().GetByHash(suite.ctx, hashResetToken(token))
	suite.Require().NoError(err)
	suite.Equal(user.ID, record.UserID)
	suite.NotEqual(token, record.TokenHash)
}

func (suite *ServiceTestSuite) TestIssue_ReissueInvalidatesPrevious() {
	suite.register("a@example.com", "pw1")

	first, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)
	second, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)
	suite.NotEqual(first, second)

	_, err = suite.registry.Confirm(suite.ctx, first, "pw2")
	suite.ErrorIs(err, models.ErrInvalidToken)

	_, err = suite.registry.Confirm(suite.ctx, second, "pw2")
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestConfirm_AtMostOnce() {
	user := suite.register("a@example.com", "pw1")
	token, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)

	suite.NoError(suite.registry.Validate(suite.ctx, token))

	userID, err := suite.registry.Confirm(suite.ctx, token, "pw2")
	suite.Require().NoError(err)
	suite.Equal(user.ID, userID)

	_, err = suite.registry.Confirm(suite.ctx, token, "pw3")
	suite.ErrorIs(err, models.ErrInvalidToken)
	suite.ErrorIs(suite.registry.Validate(suite.ctx, token), models.ErrInvalidToken)

	_, err = suite.creds.Authenticate(suite.ctx, "a@example.com", "pw2")
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestConfirm_ExpiredToken() {
	suite.register("a@example.com", "pw1")
	token, err := suite.registry.Issue(suite.ctx, "a@example.com")
	suite.Require().NoError(err)

	suite.registry.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	suite.ErrorIs(suite.registry.Validate(suite.ctx, token), models.ErrInvalidToken)
	_, err = suite.registry.Confirm(suite.ctx, token, "pw2")
	suite.ErrorIs(err, models.ErrInvalidToken)

	_, err = suite.store.ResetTokens().GetByHash(suite.ctx, hashResetToken(token))
	suite.ErrorIs(err, models.ErrNotFound)

	_, err = suite.creds.Authenticate(suite.ctx, "a@example.com", "pw1")
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestConfirm_UnknownToken() {
	_, err := suite.registry.Confirm(suite.ctx, "not-a-token", "pw")
	suite.ErrorIs(err, models.ErrInvalidToken)

	_, err = suite.registry.Confirm(suite.ctx, "", "pw")
	suite.ErrorIs(err, models.ErrInvalidToken)
}
