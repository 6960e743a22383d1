package service

import (
	"context"
	"time"

	"creospace/internal/models"
)

type followRepoStub struct {
	createFn                  func(context.Context, *models.Follow) error
	getEdgeFn                 func(context.Context, uint, uint) (*models.Follow, error)
	updateStatusFn            func(context.Context, uint, models.FollowStatus) error
	deleteFn                  func(context.Context, uint) error
	getFollowersFn            func(context.Context, uint, int, int) ([]models.Follow, error)
	getFollowingFn            func(context.Context, uint, int, int) ([]models.Follow, error)
	getPendingRequestsFn      func(context.Context, uint) ([]models.Follow, error)
	getSentRequestsFn         func(context.Context, uint) ([]models.Follow, error)
	listFollowingIDsFn        func(context.Context, uint) ([]uint, error)
	listAcceptedFollowerIDsFn func(context.Context, uint) ([]uint, error)
	getRecentFollowersFn      func(context.Context, uint, time.Time, int) ([]models.Follow, error)
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) error {
	return s.createFn(ctx, f)
}
func (s *followRepoStub) GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	return s.getEdgeFn(ctx, followerID, followingID)
}
func (s *followRepoStub) UpdateStatus(ctx context.Context, id uint, status models.FollowStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *followRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *followRepoStub) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	return s.getFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	return s.getFollowingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.getPendingRequestsFn(ctx, userID)
}
func (s *followRepoStub) GetSentRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.getSentRequestsFn(ctx, userID)
}
func (s *followRepoStub) ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.listFollowingIDsFn(ctx, userID)
}
func (s *followRepoStub) ListAcceptedFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.listAcceptedFollowerIDsFn(ctx, userID)
}
func (s *followRepoStub) GetRecentFollowers(ctx context.Context, userID uint, since time.Time, limit int) ([]models.Follow, error) {
	return s.getRecentFollowersFn(ctx, userID, since, limit)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:                  func(context.Context, *models.Follow) error { return nil },
		getEdgeFn:                 func(context.Context, uint, uint) (*models.Follow, error) { return nil, nil },
		updateStatusFn:            func(context.Context, uint, models.FollowStatus) error { return nil },
		deleteFn:                  func(context.Context, uint) error { return nil },
		getFollowersFn:            func(context.Context, uint, int, int) ([]models.Follow, error) { return nil, nil },
		getFollowingFn:            func(context.Context, uint, int, int) ([]models.Follow, error) { return nil, nil },
		getPendingRequestsFn:      func(context.Context, uint) ([]models.Follow, error) { return nil, nil },
		getSentRequestsFn:         func(context.Context, uint) ([]models.Follow, error) { return nil, nil },
		listFollowingIDsFn:        func(context.Context, uint) ([]uint, error) { return nil, nil },
		listAcceptedFollowerIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		getRecentFollowersFn: func(context.Context, uint, time.Time, int) ([]models.Follow, error) {
			return nil, nil
		},
	}
}

type profileRepoStub struct {
	createFn             func(context.Context, *models.Profile) error
	getByUserIDFn        func(context.Context, uint) (*models.Profile, error)
	getByUsernameFn      func(context.Context, string) (*models.Profile, error)
	getSummariesFn       func(context.Context, []uint) (map[uint]*models.ProfileSummary, error)
	updateFn             func(context.Context, *models.Profile) error
	searchFn             func(context.Context, string, int, int) ([]models.Profile, error)
	adjustFollowCountsFn func(context.Context, uint, uint, int) error
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *profileRepoStub) GetSummaries(ctx context.Context, userIDs []uint) (map[uint]*models.ProfileSummary, error) {
	return s.getSummariesFn(ctx, userIDs)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.Profile, error) {
	return s.searchFn(ctx, q, limit, offset)
}
func (s *profileRepoStub) AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int) error {
	return s.adjustFollowCountsFn(ctx, followerID, followingID, delta)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn: func(context.Context, *models.Profile) error { return nil },
		getByUserIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{UserID: id, Username: "someone"}, nil
		},
		getByUsernameFn: func(context.Context, string) (*models.Profile, error) { return nil, nil },
		getSummariesFn: func(_ context.Context, ids []uint) (map[uint]*models.ProfileSummary, error) {
			out := make(map[uint]*models.ProfileSummary, len(ids))
			for _, id := range ids {
				out[id] = &models.ProfileSummary{UserID: id, Username: "someone"}
			}
			return out, nil
		},
		updateFn: func(context.Context, *models.Profile) error { return nil },
		searchFn: func(context.Context, string, int, int) ([]models.Profile, error) { return nil, nil },
		adjustFollowCountsFn: func(context.Context, uint, uint, int) error { return nil },
	}
}

type postRepoStub struct {
	createFn                    func(context.Context, *models.Post) error
	getByIDFn                   func(context.Context, uint) (*models.Post, error)
	getByUserIDFn               func(context.Context, uint, int, int) ([]*models.Post, error)
	listByAuthorsFn             func(context.Context, []uint, bool, int, int) ([]*models.Post, error)
	listPublicFn                func(context.Context, string, int, int) ([]*models.Post, error)
	searchByHashtagFn           func(context.Context, string, int, int) ([]*models.Post, error)
	searchByMentionFn           func(context.Context, string, int, int) ([]*models.Post, error)
	updateFn                    func(context.Context, *models.Post) error
	deleteFn                    func(context.Context, uint) error
	isLikedFn                   func(context.Context, uint, uint) (bool, error)
	getLikedPostIDsFn           func(context.Context, uint, []uint) ([]uint, error)
	likeFn                      func(context.Context, uint, uint) (bool, error)
	unlikeFn                    func(context.Context, uint, uint) (bool, error)
	getRecentLikesOnUserPostsFn func(context.Context, uint, time.Time, int) ([]models.Like, error)
	reactFn                     func(context.Context, uint, uint, models.ReactionType) error
	unreactFn                   func(context.Context, uint, uint) error
	getReactionsFn              func(context.Context, uint) (map[models.ReactionType]int, error)
	addBookmarkFn               func(context.Context, uint, uint) error
	removeBookmarkFn            func(context.Context, uint, uint) error
	getBookmarkedPostsFn        func(context.Context, uint, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, includePrivate bool, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs, includePrivate, limit, offset)
}
func (s *postRepoStub) ListPublic(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error) {
	return s.listPublicFn(ctx, sort, limit, offset)
}
func (s *postRepoStub) SearchByHashtag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error) {
	return s.searchByHashtagFn(ctx, tag, limit, offset)
}
func (s *postRepoStub) SearchByMention(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	return s.searchByMentionFn(ctx, username, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) GetRecentLikesOnUserPosts(ctx context.Context, ownerID uint, since time.Time, limit int) ([]models.Like, error) {
	return s.getRecentLikesOnUserPostsFn(ctx, ownerID, since, limit)
}
func (s *postRepoStub) React(ctx context.Context, userID, postID uint, rtype models.ReactionType) error {
	return s.reactFn(ctx, userID, postID, rtype)
}
func (s *postRepoStub) Unreact(ctx context.Context, userID, postID uint) error {
	return s.unreactFn(ctx, userID, postID)
}
func (s *postRepoStub) GetReactions(ctx context.Context, postID uint) (map[models.ReactionType]int, error) {
	return s.getReactionsFn(ctx, postID)
}
func (s *postRepoStub) AddBookmark(ctx context.Context, userID, postID uint) error {
	return s.addBookmarkFn(ctx, userID, postID)
}
func (s *postRepoStub) RemoveBookmark(ctx context.Context, userID, postID uint) error {
	return s.removeBookmarkFn(ctx, userID, postID)
}
func (s *postRepoStub) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.getBookmarkedPostsFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(context.Context, *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByUserIDFn: func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		listByAuthorsFn: func(context.Context, []uint, bool, int, int) ([]*models.Post, error) {
			return nil, nil
		},
		listPublicFn:      func(context.Context, string, int, int) ([]*models.Post, error) { return nil, nil },
		searchByHashtagFn: func(context.Context, string, int, int) ([]*models.Post, error) { return nil, nil },
		searchByMentionFn: func(context.Context, string, int, int) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(context.Context, *models.Post) error { return nil },
		deleteFn:          func(context.Context, uint) error { return nil },
		isLikedFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		getLikedPostIDsFn: func(context.Context, uint, []uint) ([]uint, error) { return nil, nil },
		likeFn:            func(context.Context, uint, uint) (bool, error) { return true, nil },
		unlikeFn:          func(context.Context, uint, uint) (bool, error) { return true, nil },
		getRecentLikesOnUserPostsFn: func(context.Context, uint, time.Time, int) ([]models.Like, error) {
			return nil, nil
		},
		reactFn:   func(context.Context, uint, uint, models.ReactionType) error { return nil },
		unreactFn: func(context.Context, uint, uint) error { return nil },
		getReactionsFn: func(context.Context, uint) (map[models.ReactionType]int, error) {
			return nil, nil
		},
		addBookmarkFn:    func(context.Context, uint, uint) error { return nil },
		removeBookmarkFn: func(context.Context, uint, uint) error { return nil },
		getBookmarkedPostsFn: func(context.Context, uint, int, int) ([]*models.Post, error) {
			return nil, nil
		},
	}
}

type commentRepoStub struct {
	createFn               func(context.Context, *models.Comment) error
	getByIDFn              func(context.Context, uint) (*models.Comment, error)
	getByPostIDFn          func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn               func(context.Context, *models.Comment) error
	deleteFn               func(context.Context, uint, uint) error
	getRecentOnUserPostsFn func(context.Context, uint, time.Time, int) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.getByPostIDFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint, postID uint) error {
	return s.deleteFn(ctx, id, postID)
}
func (s *commentRepoStub) GetRecentOnUserPosts(ctx context.Context, ownerID uint, since time.Time, limit int) ([]*models.Comment, error) {
	return s.getRecentOnUserPostsFn(ctx, ownerID, since, limit)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(context.Context, *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		getByPostIDFn: func(context.Context, uint, int, int) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Comment) error { return nil },
		deleteFn:      func(context.Context, uint, uint) error { return nil },
		getRecentOnUserPostsFn: func(context.Context, uint, time.Time, int) ([]*models.Comment, error) {
			return nil, nil
		},
	}
}

type groupRepoStub struct {
	createFn           func(context.Context, *models.Group, uint) error
	getByIDFn          func(context.Context, uint) (*models.Group, error)
	updateFn           func(context.Context, *models.Group) error
	deleteFn           func(context.Context, uint) error
	listForUserFn      func(context.Context, uint) ([]*models.Group, error)
	getMemberFn        func(context.Context, uint, uint) (*models.GroupMember, error)
	listMembersFn      func(context.Context, uint) ([]models.GroupMember, error)
	addMemberFn        func(context.Context, *models.GroupMember) error
	removeMemberFn     func(context.Context, uint, uint) error
	updateMemberRoleFn func(context.Context, uint, uint, models.GroupMemberRole) error
	countAdminsFn      func(context.Context, uint) (int64, error)
	createMessageFn    func(context.Context, *models.Message) error
	getMessagesFn      func(context.Context, uint, int, int) ([]*models.Message, error)
}

func (s *groupRepoStub) Create(ctx context.Context, g *models.Group, creatorID uint) error {
	return s.createFn(ctx, g, creatorID)
}
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) Update(ctx context.Context, g *models.Group) error {
	return s.updateFn(ctx, g)
}
func (s *groupRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *groupRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Group, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *groupRepoStub) GetMember(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	return s.getMemberFn(ctx, groupID, userID)
}
func (s *groupRepoStub) ListMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	return s.listMembersFn(ctx, groupID)
}
func (s *groupRepoStub) AddMember(ctx context.Context, m *models.GroupMember) error {
	return s.addMemberFn(ctx, m)
}
func (s *groupRepoStub) RemoveMember(ctx context.Context, groupID, userID uint) error {
	return s.removeMemberFn(ctx, groupID, userID)
}
func (s *groupRepoStub) UpdateMemberRole(ctx context.Context, groupID, userID uint, role models.GroupMemberRole) error {
	return s.updateMemberRoleFn(ctx, groupID, userID, role)
}
func (s *groupRepoStub) CountAdmins(ctx context.Context, groupID uint) (int64, error) {
	return s.countAdminsFn(ctx, groupID)
}
func (s *groupRepoStub) CreateMessage(ctx context.Context, m *models.Message) error {
	return s.createMessageFn(ctx, m)
}
func (s *groupRepoStub) GetMessages(ctx context.Context, groupID uint, limit, offset int) ([]*models.Message, error) {
	return s.getMessagesFn(ctx, groupID, limit, offset)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn:      func(context.Context, *models.Group, uint) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Group, error) { return &models.Group{ID: id}, nil },
		updateFn:      func(context.Context, *models.Group) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		listForUserFn: func(context.Context, uint) ([]*models.Group, error) { return nil, nil },
		getMemberFn: func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
			return &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleMember}, nil
		},
		listMembersFn:      func(context.Context, uint) ([]models.GroupMember, error) { return nil, nil },
		addMemberFn:        func(context.Context, *models.GroupMember) error { return nil },
		removeMemberFn:     func(context.Context, uint, uint) error { return nil },
		updateMemberRoleFn: func(context.Context, uint, uint, models.GroupMemberRole) error { return nil },
		countAdminsFn:      func(context.Context, uint) (int64, error) { return 2, nil },
		createMessageFn:    func(context.Context, *models.Message) error { return nil },
		getMessagesFn:      func(context.Context, uint, int, int) ([]*models.Message, error) { return nil, nil },
	}
}

type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}

type collectionRepoStub struct {
	createFn          func(context.Context, *models.Collection) error
	getByIDFn         func(context.Context, uint) (*models.Collection, error)
	listForUserFn     func(context.Context, uint) ([]*models.Collection, error)
	updateFn          func(context.Context, *models.Collection) error
	deleteFn          func(context.Context, uint) error
	addItemFn         func(context.Context, uint, uint) error
	removeItemFn      func(context.Context, uint, uint) error
	listItemPostIDsFn func(context.Context, uint, int, int) ([]uint, error)
}

func (s *collectionRepoStub) Create(ctx context.Context, c *models.Collection) error {
	return s.createFn(ctx, c)
}
func (s *collectionRepoStub) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *collectionRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Collection, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *collectionRepoStub) Update(ctx context.Context, c *models.Collection) error {
	return s.updateFn(ctx, c)
}
func (s *collectionRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *collectionRepoStub) AddItem(ctx context.Context, collectionID, postID uint) error {
	return s.addItemFn(ctx, collectionID, postID)
}
func (s *collectionRepoStub) RemoveItem(ctx context.Context, collectionID, postID uint) error {
	return s.removeItemFn(ctx, collectionID, postID)
}
func (s *collectionRepoStub) ListItemPostIDs(ctx context.Context, collectionID uint, limit, offset int) ([]uint, error) {
	return s.listItemPostIDsFn(ctx, collectionID, limit, offset)
}

func noopCollectionRepo() *collectionRepoStub {
	return &collectionRepoStub{
		createFn: func(context.Context, *models.Collection) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Collection, error) {
			return &models.Collection{ID: id, UserID: 1}, nil
		},
		listForUserFn:     func(context.Context, uint) ([]*models.Collection, error) { return nil, nil },
		updateFn:          func(context.Context, *models.Collection) error { return nil },
		deleteFn:          func(context.Context, uint) error { return nil },
		addItemFn:         func(context.Context, uint, uint) error { return nil },
		removeItemFn:      func(context.Context, uint, uint) error { return nil },
		listItemPostIDsFn: func(context.Context, uint, int, int) ([]uint, error) { return nil, nil },
	}
}

type projectRepoStub struct {
	createFn               func(context.Context, *models.Project) error
	getByIDFn              func(context.Context, uint) (*models.Project, error)
	getByUserIDFn          func(context.Context, uint, int, int) ([]*models.Project, error)
	listPublicFn           func(context.Context, int, int) ([]*models.Project, error)
	updateFn               func(context.Context, *models.Project) error
	deleteFn               func(context.Context, uint) error
	starFn                 func(context.Context, uint, uint) (bool, error)
	unstarFn               func(context.Context, uint, uint) (bool, error)
	getStarredProjectIDsFn func(context.Context, uint, []uint) ([]uint, error)
	forkFn                 func(context.Context, *models.Project, *models.Project) error
}

func (s *projectRepoStub) Create(ctx context.Context, p *models.Project) error {
	return s.createFn(ctx, p)
}
func (s *projectRepoStub) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.getByIDFn(ctx, id)
}
func (s *projectRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Project, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *projectRepoStub) ListPublic(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	return s.listPublicFn(ctx, limit, offset)
}
func (s *projectRepoStub) Update(ctx context.Context, p *models.Project) error {
	return s.updateFn(ctx, p)
}
func (s *projectRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *projectRepoStub) Star(ctx context.Context, userID, projectID uint) (bool, error) {
	return s.starFn(ctx, userID, projectID)
}
func (s *projectRepoStub) Unstar(ctx context.Context, userID, projectID uint) (bool, error) {
	return s.unstarFn(ctx, userID, projectID)
}
func (s *projectRepoStub) GetStarredProjectIDs(ctx context.Context, userID uint, projectIDs []uint) ([]uint, error) {
	return s.getStarredProjectIDsFn(ctx, userID, projectIDs)
}
func (s *projectRepoStub) Fork(ctx context.Context, origin, fork *models.Project) error {
	return s.forkFn(ctx, origin, fork)
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		createFn: func(context.Context, *models.Project) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Project, error) {
			return &models.Project{ID: id, UserID: 1}, nil
		},
		getByUserIDFn: func(context.Context, uint, int, int) ([]*models.Project, error) { return nil, nil },
		listPublicFn:  func(context.Context, int, int) ([]*models.Project, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Project) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		starFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
		unstarFn:      func(context.Context, uint, uint) (bool, error) { return true, nil },
		getStarredProjectIDsFn: func(context.Context, uint, []uint) ([]uint, error) {
			return nil, nil
		},
		forkFn: func(context.Context, *models.Project, *models.Project) error { return nil },
	}
}

type storyRepoStub struct {
	createFn             func(context.Context, *models.Story) error
	getByIDFn            func(context.Context, uint) (*models.Story, error)
	getActiveByAuthorsFn func(context.Context, []uint, time.Time) ([]*models.Story, error)
	getActiveByUserIDFn  func(context.Context, uint, time.Time) ([]*models.Story, error)
	deleteFn             func(context.Context, uint) error
}

func (s *storyRepoStub) Create(ctx context.Context, st *models.Story) error {
	return s.createFn(ctx, st)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) GetActiveByAuthors(ctx context.Context, authorIDs []uint, now time.Time) ([]*models.Story, error) {
	return s.getActiveByAuthorsFn(ctx, authorIDs, now)
}
func (s *storyRepoStub) GetActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error) {
	return s.getActiveByUserIDFn(ctx, userID, now)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn:  func(context.Context, *models.Story) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) { return &models.Story{ID: id}, nil },
		getActiveByAuthorsFn: func(context.Context, []uint, time.Time) ([]*models.Story, error) {
			return nil, nil
		},
		getActiveByUserIDFn: func(context.Context, uint, time.Time) ([]*models.Story, error) {
			return nil, nil
		},
		deleteFn: func(context.Context, uint) error { return nil },
	}
}
