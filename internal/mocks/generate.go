package mocks

//go:generate mockery --name QueueStore --srcpkg github.com/tally-lab/tally/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name EventStore --srcpkg github.com/tally-lab/tally/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name RollupStore --srcpkg github.com/tally-lab/tally/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
