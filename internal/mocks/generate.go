package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SeasonFeed --dir ../domain/race --output domain/race --outpkg racemock --filename season_feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventPublisher --dir ../domain/draft --output domain/draft --outpkg draftmock --filename event_publisher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/team --output domain/team --outpkg teammock --filename repository_mock.go
