package acceptance

import (
	"bytes"
	"mime/multipart"
	"net/http"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
)

func (s *Suite) postForm(caption string, files ...string) *multipartBody {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range files {
		part, err := writer.CreateFormFile("posts", name)
		s.Require().NoError(err)
		_, err = part.Write([]byte("image:" + name))
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.WriteField("caption", caption))
	s.Require().NoError(writer.Close())
	return &multipartBody{buf: &buf, contentType: writer.FormDataContentType()}
}

func (s *Suite) TestPostCommentLike() {
	author := s.registerVerified("author@example.com", "author", "81111111")
	fan := s.registerVerified("fan@example.com", "fan", "82222222")

	resp := s.request(http.MethodPost, "/api/post", author.AccessToken, s.postForm("sunset", "a.jpg", "b.jpg"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var post dto.PostResponse
	s.decode(resp, &post)
	s.Len(post.Media, 2)
	s.Require().NotNil(post.Caption)
	s.Equal("sunset", *post.Caption)

	resp = s.request(http.MethodPost, "/api/comment", fan.AccessToken, dto.CommentRequest{PostID: post.PostID, Comment: "nice"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var comment dto.CommentResponse
	s.decode(resp, &comment)
	s.Equal("fan", comment.User.Username)

	resp = s.request(http.MethodPut, "/api/comment/"+comment.CommentID, author.AccessToken, dto.EditCommentRequest{Comment: "mine now"})
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/like", fan.AccessToken, dto.LikeRequest{PostID: post.PostID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/like", fan.AccessToken, dto.LikeRequest{PostID: post.PostID})
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/like/all?post="+post.PostID, author.AccessToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var likes domain.Page[dto.LikeResponse]
	s.decode(resp, &likes)
	s.Equal(1, likes.TotalDocs)

	resp = s.request(http.MethodDelete, "/api/post/"+post.PostID, author.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/post/"+post.PostID, author.AccessToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestFollowGraph() {
	alice := s.registerVerified("alice@example.com", "alice", "91111111")
	bob := s.registerVerified("bob@example.com", "bob", "92222222")

	resp := s.request(http.MethodPost, "/api/user/follow/"+bob.User.ID, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/auth/me/following", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var following dto.FollowingResponse
	s.decode(resp, &following)
	s.Require().Len(following.Following, 1)
	s.Equal("bob", following.Following[0].Username)

	resp = s.request(http.MethodGet, "/api/user/followers/"+bob.User.ID, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var followers dto.FollowersResponse
	s.decode(resp, &followers)
	s.Require().Len(followers.Followers, 1)
	s.Equal("alice", followers.Followers[0].Username)

	resp = s.request(http.MethodGet, "/api/search?q=bo", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var found dto.UsersResponse
	s.decode(resp, &found)
	s.Require().Len(found.Users, 1)
	s.Equal("bob", found.Users[0].Username)
}
