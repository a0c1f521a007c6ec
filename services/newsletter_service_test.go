package services

import (
	"context"
	"errors"
	"sync"

	"personal-blog/access"
	"personal-blog/digest"
	"personal-blog/mail"
	"personal-blog/models"
)

type stubComposer struct {
	failFor string
}

func (c stubComposer) Compose(_ context.Context, r digest.Recipient) (mail.Message, error) {
	if r.Email == c.failFor {
		return mail.Message{}, errors.New("news api down")
	}
	return mail.Message{To: r.Email, Subject: "digest", Body: r.Interest + "|" + r.ApproxLocation}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (suite *ServiceTestSuite) newsletter(composer DigestComposer) (*NewsletterService, *jobQueue, *recordingMailer) {
	jobs := &jobQueue{}
	mailer := &recordingMailer{}
	svc := NewNewsletterService(suite.store, suite.gate, jobs, composer, mailer, discardLogger())
	return svc, jobs, mailer
}

func (suite *ServiceTestSuite) TestSubscribeAndUnsubscribe() {
	svc, _, _ := suite.newsletter(stubComposer{})
	user := suite.register("a@example.com", "pw")
	p := suite.principal(user)

	_, err := svc.Subscribe(suite.ctx, access.Anonymous(), models.NewsletterSignupRequest{Interest: "tech"})
	suite.ErrorIs(err, models.ErrUnauthenticated)

	got, err := svc.Subscribe(suite.ctx, p, models.NewsletterSignupRequest{
		Interest: " tech ", ApproxLocation: "Lisbon", OtherInfo: "Yes",
	})
	suite.Require().NoError(err)
	suite.True(got.Subscribed())
	suite.Equal("tech", *got.NewsletterInterest)
	suite.Equal("Lisbon", *got.ApproxLocation)
	suite.True(got.WantsExtraInfo)

	suite.Require().NoError(svc.Unsubscribe(suite.ctx, p))
	got, err = suite.creds.Get(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.False(got.Subscribed())
	suite.Nil(got.ApproxLocation)
}

func (suite *ServiceTestSuite) TestSendDigest_IsolatesFailures() {
	svc, jobs, mailer := suite.newsletter(stubComposer{failFor: "b@example.com"})
	owner := suite.principal(suite.register("owner@example.com", "pw"))

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		p := suite.principal(suite.register(email, "pw"))
		_, err := svc.Subscribe(suite.ctx, p, models.NewsletterSignupRequest{Interest: "science"})
		suite.Require().NoError(err)
	}
	suite.register("quiet@example.com", "pw")

	_, err := svc.SendDigest(suite.ctx, suite.principal(suite.register("x@example.com", "pw")))
	suite.ErrorIs(err, models.ErrForbidden)

	queued, err := svc.SendDigest(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Equal(3, queued)
	suite.Require().Len(jobs.jobs, 3)

	var failed int
	for _, job := range jobs.jobs {
		if err := job.Run(suite.ctx); err != nil {
			failed++
		}
	}
	suite.Equal(1, failed)

	suite.Require().Len(mailer.sent, 2)
	suite.Equal("a@example.com", mailer.sent[0].To)
	suite.Equal("c@example.com", mailer.sent[1].To)
}
