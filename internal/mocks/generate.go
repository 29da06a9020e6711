package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/scrapelog --output domain/scrapelog --outpkg scrapelogmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/scoringconfig --output domain/scoringconfig --outpkg scoringconfigmock --filename repository_mock.go
