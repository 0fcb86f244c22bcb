// Package store 는 퍼블리싱 앱의 클라이언트 측 상태를 보관한다.
//
// store 는 resource.Client 를 받아 명시적으로 생성하며 동시에 사용해도 안전하다.
// 모든 동작은 요청이 끝날 때까지 블록하고, 전송 에러를 반환하는 대신 결과를 상태에
// 기록한다. 호출자는 Snapshot 을 읽거나 변경 이벤트를 구독해서 화면을 그린다.
package store

import (
	"context"
	"sync"

	"inkwell/internal/logger"
	"inkwell/models"
	"inkwell/resource"
	"inkwell/task"
)

const DefaultPageSize = 10

const (
	TaskFetchPosts    = "posts/fetchPosts"
	TaskFetchMyPosts  = "posts/fetchMyPosts"
	TaskFetchPostByID = "posts/fetchPostById"
	TaskLikePost      = "posts/likePost"
	TaskDeletePost    = "posts/deletePost"
	TaskCreatePost    = "posts/createPost"
	TaskUpdatePost    = "posts/updatePost"
	TaskTogglePublish = "posts/togglePublish"
)

type Options struct {
	// PageSize 는 목록 페이지 크기다. 기본값은 DefaultPageSize.
	PageSize int
	// EventBuffer 는 구독자별 채널 버퍼 크기다.
	EventBuffer int
}

// PostsSnapshot 은 글 상태의 깊은 복사본이다.
type PostsSnapshot struct {
	Posts       []models.Post
	MyPosts     []models.Post
	CurrentPost *models.Post

	Filter models.FilterState
	Cursor models.Cursor

	Loading        bool
	LoadingMyPosts bool
	LoadingPost    bool

	PostsErr       *resource.Error
	MyPostsErr     *resource.Error
	CurrentPostErr *resource.Error
	LikeErr        *resource.Error
	DeleteErr      *resource.Error
	CreateErr      *resource.Error
	UpdateErr      *resource.Error
	PublishErr     *resource.Error
}

// Err 는 기록된 첫 번째 에러를 반환한다. 조회 에러가 동작 에러보다 먼저다.
func (s PostsSnapshot) Err() *resource.Error {
	for _, err := range []*resource.Error{
		s.PostsErr, s.MyPostsErr, s.CurrentPostErr,
		s.LikeErr, s.DeleteErr, s.CreateErr, s.UpdateErr, s.PublishErr,
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// PostsStore 는 글 id 마다 항목 하나를 둔다. 공개 목록, 내 글 목록, 현재 글은 모두
// 이 테이블을 가리키는 id 이므로 서버 응답 하나로 모든 화면의 글이 함께 갱신된다.
type PostsStore struct {
	mu       sync.Mutex
	client   resource.Client
	pageSize int
	events   *hub

	entities  map[string]*models.Post
	postIDs   []string
	myPostIDs []string
	currentID string
	deleted   map[string]struct{}

	rev     uint64
	touched map[string]uint64

	filter models.FilterState
	cursor models.Cursor

	posts       *task.Task[resource.Page]
	myPosts     *task.Task[[]models.Post]
	currentPost *task.Task[models.Post]
	like        *task.Task[string]
	remove      *task.Task[string]
	create      *task.Task[models.Post]
	update      *task.Task[models.Post]
	publish     *task.Task[models.Post]
}

func NewPostsStore(client resource.Client, opts Options) *PostsStore {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &PostsStore{
		client:   client,
		pageSize: pageSize,
		events:   newHub(opts.EventBuffer),
		entities: make(map[string]*models.Post),
		deleted:  make(map[string]struct{}),
		touched:  make(map[string]uint64),
		filter:   models.DefaultFilter(),
		cursor:   models.InitialCursor(),
	}
	s.posts = task.New[resource.Page](TaskFetchPosts, &s.mu, s.observe)
	s.myPosts = task.New[[]models.Post](TaskFetchMyPosts, &s.mu, s.observe)
	s.currentPost = task.New[models.Post](TaskFetchPostByID, &s.mu, s.observe)
	s.like = task.NewMutation[string](TaskLikePost, &s.mu, s.observe)
	s.remove = task.NewMutation[string](TaskDeletePost, &s.mu, s.observe)
	s.create = task.NewMutation[models.Post](TaskCreatePost, &s.mu, s.observe)
	s.update = task.NewMutation[models.Post](TaskUpdatePost, &s.mu, s.observe)
	s.publish = task.NewMutation[models.Post](TaskTogglePublish, &s.mu, s.observe)
	return s
}

func (s *PostsStore) PageSize() int { return s.pageSize }

// Subscribe 는 변경 이벤트 채널과 구독 해제 함수를 반환한다.
func (s *PostsStore) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *PostsStore) observe(name string, status task.Status) {
	s.events.publish(Event{Kind: EventTask, Task: name, Status: status})
}

// FetchPosts 는 현재 필터의 첫 페이지를 불러와 목록을 교체한다.
func (s *PostsStore) FetchPosts(ctx context.Context) bool {
	var since uint64
	err := s.posts.Run(ctx, func(ctx context.Context) (resource.Page, error) {
		s.mu.Lock()
		params := resource.ParamsFor(s.filter, 0, s.pageSize)
		since = s.rev
		s.mu.Unlock()
		return s.client.ListPosts(ctx, params)
	}, func(page resource.Page) {
		s.postIDs = s.mergeList(page.Items, since)
		s.cursor = models.Cursor{Offset: len(page.Items), HasMore: s.hasMore(page)}
		s.collect()
	})
	return err == nil
}

// FetchMorePosts 는 현재 offset 의 다음 페이지를 불러와 목록 뒤에 붙인다.
// 더 불러올 글이 없거나 목록 요청이 진행 중이면 아무것도 하지 않는다.
func (s *PostsStore) FetchMorePosts(ctx context.Context) bool {
	s.mu.Lock()
	if !s.cursor.HasMore || s.posts.Pending() {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	var since uint64
	err := s.posts.Run(ctx, func(ctx context.Context) (resource.Page, error) {
		s.mu.Lock()
		params := resource.ParamsFor(s.filter, s.cursor.Offset, s.pageSize)
		since = s.rev
		s.mu.Unlock()
		return s.client.ListPosts(ctx, params)
	}, func(page resource.Page) {
		seen := make(map[string]struct{}, len(s.postIDs))
		for _, id := range s.postIDs {
			seen[id] = struct{}{}
		}
		for _, id := range s.mergeList(page.Items, since) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			s.postIDs = append(s.postIDs, id)
		}
		s.cursor = models.Cursor{Offset: s.cursor.Offset + len(page.Items), HasMore: s.hasMore(page)}
	})
	return err == nil
}

// FetchMyPosts 는 내 글 목록을 불러온다. 필터는 적용하지 않는다.
func (s *PostsStore) FetchMyPosts(ctx context.Context) bool {
	var since uint64
	err := s.myPosts.Run(ctx, func(ctx context.Context) ([]models.Post, error) {
		s.mu.Lock()
		since = s.rev
		s.mu.Unlock()
		return s.client.ListMyPosts(ctx)
	}, func(items []models.Post) {
		s.myPostIDs = s.mergeList(items, since)
		s.collect()
	})
	return err == nil
}

// FetchPostByID 는 글 하나를 현재 글로 불러온다.
func (s *PostsStore) FetchPostByID(ctx context.Context, id string) bool {
	var since uint64
	err := s.currentPost.Run(ctx, func(ctx context.Context) (models.Post, error) {
		s.mu.Lock()
		since = s.rev
		s.mu.Unlock()
		return s.client.GetPost(ctx, id)
	}, func(p models.Post) {
		if s.upsert(p, since) {
			s.currentID = p.ID
			s.collect()
		}
	})
	return err == nil
}

// LikePost 는 서버가 좋아요를 확인한 뒤에 좋아요 수를 1 올린다.
func (s *PostsStore) LikePost(ctx context.Context, id string) bool {
	err := s.like.Run(ctx, func(ctx context.Context) (string, error) {
		return id, s.client.LikePost(ctx, id)
	}, func(id string) {
		if p, ok := s.entities[id]; ok {
			p.LikesCount++
			s.touch(id)
		}
	})
	return err == nil
}

// DeletePost 는 서버가 삭제를 확인하면 모든 화면에서 글을 지운다.
// id 를 기억해 두어 이미 진행 중인 응답이 글을 되살리지 못하게 한다.
func (s *PostsStore) DeletePost(ctx context.Context, id string) bool {
	err := s.remove.Run(ctx, func(ctx context.Context) (string, error) {
		return id, s.client.DeletePost(ctx, id)
	}, func(id string) {
		s.deleted[id] = struct{}{}
		delete(s.entities, id)
		delete(s.touched, id)
		if listed := without(s.postIDs, id); len(listed) != len(s.postIDs) {
			s.postIDs = listed
			if s.cursor.Offset > 0 {
				s.cursor.Offset--
			}
		}
		s.myPostIDs = without(s.myPostIDs, id)
		if s.currentID == id {
			s.currentID = ""
		}
	})
	return err == nil
}

// CreatePost 는 in 을 로컬에서 검증한 뒤 글을 만들고 내 글 목록 맨 앞에 넣는다.
func (s *PostsStore) CreatePost(ctx context.Context, in models.CreatePostInput) (models.Post, bool) {
	in.Tags = models.NormalizeTags(in.Tags)
	if err := in.Validate(); err != nil {
		s.reject(s.create.Reject, TaskCreatePost, err)
		return models.Post{}, false
	}

	var created models.Post
	err := s.create.Run(ctx, func(ctx context.Context) (models.Post, error) {
		return s.client.CreatePost(ctx, in)
	}, func(p models.Post) {
		delete(s.deleted, p.ID)
		s.upsert(p, s.rev)
		s.touch(p.ID)
		s.myPostIDs = append([]string{p.ID}, without(s.myPostIDs, p.ID)...)
		created = p.Clone()
	})
	return created, err == nil
}

// UpdatePost 는 부분 수정을 보내고 응답 받은 글을 반영한다.
func (s *PostsStore) UpdatePost(ctx context.Context, in models.UpdatePostInput) (models.Post, bool) {
	if in.Tags != nil {
		in.Tags = models.NormalizeTags(in.Tags)
	}
	if err := in.Validate(); err != nil {
		s.reject(s.update.Reject, TaskUpdatePost, err)
		return models.Post{}, false
	}

	var updated models.Post
	err := s.update.Run(ctx, func(ctx context.Context) (models.Post, error) {
		return s.client.UpdatePost(ctx, in)
	}, func(p models.Post) {
		s.upsert(p, s.rev)
		s.touch(p.ID)
		updated = p.Clone()
	})
	return updated, err == nil
}

// TogglePublish 는 서버에서 공개 여부를 뒤집고 결과를 반영한다.
func (s *PostsStore) TogglePublish(ctx context.Context, id string) (models.Post, bool) {
	var toggled models.Post
	err := s.publish.Run(ctx, func(ctx context.Context) (models.Post, error) {
		return s.client.TogglePublish(ctx, id)
	}, func(p models.Post) {
		s.upsert(p, s.rev)
		s.touch(p.ID)
		toggled = p.Clone()
	})
	return toggled, err == nil
}

// SetFilter 는 patch 를 필터에 합치고 커서를 즉시 초기화한다.
// 진행 중인 목록 요청의 결과는 더 이상 반영되지 않는다.
func (s *PostsStore) SetFilter(patch models.FilterPatch) {
	s.mu.Lock()
	s.filter = s.filter.Apply(patch)
	s.cursor = models.InitialCursor()
	s.posts.Invalidate()
	filter := s.filter.Clone()
	s.mu.Unlock()

	logger.DebugWithFields("posts filter changed", logger.Fields{
		"search":   filter.Search,
		"category": string(filter.Category),
		"tags":     filter.Tags,
	})
	s.events.publish(Event{Kind: EventFilter})
}

// ClearPosts 는 목록을 비우고 커서를 초기화한다. 여러 번 호출해도 결과는 같다.
func (s *PostsStore) ClearPosts() {
	s.mu.Lock()
	s.postIDs = nil
	s.cursor = models.InitialCursor()
	s.posts.Invalidate()
	s.collect()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared, Task: TaskFetchPosts})
}

func (s *PostsStore) ClearCurrentPost() {
	s.mu.Lock()
	s.currentID = ""
	s.currentPost.Reset()
	s.collect()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared, Task: TaskFetchPostByID})
}

func (s *PostsStore) Snapshot() PostsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := PostsSnapshot{
		Posts:          s.resolve(s.postIDs),
		MyPosts:        s.resolve(s.myPostIDs),
		Filter:         s.filter.Clone(),
		Cursor:         s.cursor,
		Loading:        s.posts.Pending(),
		LoadingMyPosts: s.myPosts.Pending(),
		LoadingPost:    s.currentPost.Pending(),
		PostsErr:       s.posts.Err(),
		MyPostsErr:     s.myPosts.Err(),
		CurrentPostErr: s.currentPost.Err(),
		LikeErr:        s.like.Err(),
		DeleteErr:      s.remove.Err(),
		CreateErr:      s.create.Err(),
		UpdateErr:      s.update.Err(),
		PublishErr:     s.publish.Err(),
	}
	if p, ok := s.entities[s.currentID]; ok && s.currentID != "" {
		cp := p.Clone()
		snap.CurrentPost = &cp
	}
	return snap
}

// VisiblePosts 는 목록을 필터의 태그로 좁힌 결과다. 태그 필터는 서버가 적용하지 않는다.
func (s *PostsStore) VisiblePosts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Post, 0, len(s.postIDs))
	for _, id := range s.postIDs {
		p, ok := s.entities[id]
		if !ok || !s.filter.Matches(*p) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// ClearErrors 는 모든 종류의 에러를 지운다.
func (s *PostsStore) ClearErrors() {
	s.mu.Lock()
	s.posts.ClearError()
	s.myPosts.ClearError()
	s.currentPost.ClearError()
	s.like.ClearError()
	s.remove.ClearError()
	s.create.ClearError()
	s.update.ClearError()
	s.publish.ClearError()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared})
}

func (s *PostsStore) reject(rejectFn func(*resource.Error), name string, err error) {
	verr := resource.Validation(name, err)
	s.mu.Lock()
	rejectFn(verr)
	s.mu.Unlock()
	logger.WarnWithFields("task rejected locally", logger.Fields{
		"task":  name,
		"error": verr.Error(),
	})
	s.observe(name, task.StatusRejected)
}

func (s *PostsStore) hasMore(page resource.Page) bool {
	if page.HasMore != nil && !*page.HasMore {
		return false
	}
	return len(page.Items) >= s.pageSize
}

// mergeList 는 items 를 테이블에 넣고 id 를 순서대로 반환한다.
// 삭제된 id 와 중복은 건너뛴다. 호출자가 s.mu 를 잡고 있어야 한다.
func (s *PostsStore) mergeList(items []models.Post, since uint64) []string {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, p := range items {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if !s.upsert(p, since) {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}

// upsert 는 테이블 항목을 서버 사본으로 교체한다. 삭제됐거나 id 가 없는 글이면 false.
// since 시점에 요청한 사본은 그 뒤 확인된 변경이 있는 항목을 덮어쓰지 않는다.
// 호출자가 s.mu 를 잡고 있어야 한다.
func (s *PostsStore) upsert(p models.Post, since uint64) bool {
	if p.ID == "" {
		return false
	}
	if _, gone := s.deleted[p.ID]; gone {
		return false
	}
	if _, ok := s.entities[p.ID]; ok && s.touched[p.ID] > since {
		return true
	}
	cp := p.Clone()
	s.entities[p.ID] = &cp
	return true
}

// touch 는 확인된 변경이 id 에 적용됐음을 기록한다. 호출자가 s.mu 를 잡고 있어야 한다.
func (s *PostsStore) touch(id string) {
	s.rev++
	s.touched[id] = s.rev
}

// collect 는 어느 화면에서도 참조하지 않는 항목을 지운다. 호출자가 s.mu 를 잡고 있어야 한다.
func (s *PostsStore) collect() {
	live := make(map[string]struct{}, len(s.postIDs)+len(s.myPostIDs)+1)
	for _, id := range s.postIDs {
		live[id] = struct{}{}
	}
	for _, id := range s.myPostIDs {
		live[id] = struct{}{}
	}
	if s.currentID != "" {
		live[s.currentID] = struct{}{}
	}
	for id := range s.entities {
		if _, ok := live[id]; !ok {
			delete(s.entities, id)
		}
	}
}

func (s *PostsStore) resolve(ids []string) []models.Post {
	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.entities[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
