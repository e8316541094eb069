package render

const previewHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no"/>
<meta name="generator" content="WordPress 5.3.2"/>
<title>{{.Meta.Title}}</title>
<meta property="al:android:package" content="https://www.facebook.com/profile.php/"/>
<meta name="twitter:app:id:googleplay" content="https://www.facebook.com/profile.php/"/>
<meta property="al:android:app_name" content="Facebook"/>
<meta name="twitter:app:name:googleplay" content="Facebook"/>
<meta name="theme-color" content="#563d7c"/>
<meta property="fb:app_id" content="87741124305"/>
<meta property="og:type" content="article"/>
<meta property="og:title" content="{{.Meta.Title}}"/>
<meta property="og:description" content="{{.Meta.Description}}"/>
<meta property="og:image" content="{{.Meta.ImageURL}}"/>
<meta property="og:image:type" content="image/jpeg"/>
<meta property="og:image:width" content="{{.Meta.ImageWidth}}"/>
<meta property="og:image:height" content="{{.Meta.ImageHeight}}"/>
<meta name="twitter:card" content="summary_large_image"/>
<meta name="twitter:description" content="{{.Meta.Description}}"/>
<meta name="twitter:image" content="{{.Meta.ImageURL}}"/>
</head>
<body>
<div class="container">
<h1>{{.Meta.Title}}</h1>
<p><img src="{{.Meta.ImageURL}}" alt="{{.ImageAlt}}" width="{{.Meta.ImageWidth}}" height="{{.Meta.ImageHeight}}" class="img-responsive"/></p>
</div>
</body>
</html>
`

const postHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>{{.Post.Title}}</title>
<meta name="description" content="{{.Description}}"/>
<meta property="fb:app_id" content="87741124305"/>
<meta property="og:title" content="{{.Post.Title}}"/>
<meta property="og:description" content="{{.Description}}"/>
<meta property="og:url" content="{{.AbsoluteURL}}"/>
<meta property="og:type" content="article"/>
<meta property="og:locale" content="en_US"/>
<meta property="og:site_name" content="{{.SiteName}}"/>
<meta property="article:published_time" content="{{.Post.DateGmt}}"/>
<meta property="article:modified_time" content="{{.Post.ModifiedGmt}}"/>
<meta http-equiv="Cache-Control" content="no-cache, no-store, must-revalidate"/>
<meta http-equiv="Pragma" content="no-cache"/>
<meta http-equiv="Expires" content="0"/>
{{if .ImageURL}}<meta property="og:image" content="{{.ImageURL}}"/>
<meta property="og:image:secure_url" content="{{.ImageURL}}"/>
<meta property="og:image:url" content="{{.ImageURL}}"/>
<meta property="og:image:type" content="image/jpeg"/>
<meta property="og:image:width" content="{{.ImageWidth}}"/>
<meta property="og:image:height" content="{{.ImageHeight}}"/>
<meta property="og:image:alt" content="{{.ImageAlt}}"/>
<link rel="image_src" href="{{.ImageURL}}"/>
<meta name="twitter:card" content="summary_large_image"/>
<meta name="twitter:title" content="{{.Post.Title}}"/>
<meta name="twitter:description" content="{{.Description}}"/>
<meta name="twitter:image" content="{{.ImageURL}}"/>
<meta name="twitter:image:alt" content="{{.ImageAlt}}"/>{{end}}
</head>
<body>
<main>
<article>
<h1>{{.Post.Title}}</h1>
{{if .ImageURL}}<div class="image-container"><img src="{{.ImageURL}}" alt="{{.ImageAlt}}" width="{{.ImageWidth}}" height="{{.ImageHeight}}"/></div>{{end}}
<div class="post-content">{{.Content}}</div>
<div class="meta">
<p>Author: {{.Post.AuthorName}}</p>
<p>Published: {{.Post.DateGmt}}</p>
</div>
</article>
</main>
</body>
</html>
`

const notFoundHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Not Found</title></head>
<body>
<div class="container">
<h1>URL not found</h1>
<p>The requested resource could not be found.</p>
</div>
</body>
</html>
`
